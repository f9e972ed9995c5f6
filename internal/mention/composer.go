package mention

import "github.com/eonix/collab/internal/directory"

// Composer tracks the state of a comment input box: the raw text, the cursor,
// the active mention trigger with its candidate list and highlighted index,
// and the set of members mentioned so far. It owns the keyboard protocol for
// mention selection so the contract can be exercised without a UI.
type Composer struct {
	members []directory.Member

	text   string
	cursor int

	trigger    Trigger
	active     bool
	candidates []directory.Member
	index      int

	mentions []directory.Member
}

func NewComposer(members []directory.Member) *Composer {
	return &Composer{members: members}
}

// SetInput updates the text and cursor, re-evaluating the mention trigger.
// Typing a space inside an active trigger cancels it here, via DetectTrigger.
func (c *Composer) SetInput(text string, cursor int) {
	c.text = text
	c.cursor = cursor
	trigger, ok := DetectTrigger(text, cursor)
	if !ok {
		c.closeDropdown()
		return
	}
	c.trigger = trigger
	c.active = true
	c.candidates = FilterCandidates(trigger.Query, c.members)
	c.index = 0
}

// Active reports whether a mention is being composed. An active trigger with
// zero candidates is valid; the UI hides the dropdown.
func (c *Composer) Active() bool { return c.active }

// Candidates returns the current filtered candidate list in roster order.
func (c *Composer) Candidates() []directory.Member {
	out := make([]directory.Member, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// Index returns the highlighted candidate index, clamped to [0, n-1].
func (c *Composer) Index() int { return c.index }

// MoveDown advances the highlight, stopping at the last candidate.
func (c *Composer) MoveDown() {
	if !c.active {
		return
	}
	if c.index < len(c.candidates)-1 {
		c.index++
	}
}

// MoveUp retreats the highlight, stopping at the first candidate.
func (c *Composer) MoveUp() {
	if !c.active {
		return
	}
	if c.index > 0 {
		c.index--
	}
}

// Commit applies the highlighted candidate (Enter without a modifier).
// Returns false when no trigger is active or there are no candidates.
func (c *Composer) Commit() bool {
	if !c.active || c.index >= len(c.candidates) {
		return false
	}
	member := c.candidates[c.index]
	applied := ApplyMention(c.text, c.trigger.Start, c.cursor, member)
	c.text = applied.NewText
	c.cursor = applied.NewCursor
	c.recordMention(member)
	c.closeDropdown()
	return true
}

// Cancel dismisses the dropdown without modifying text (Escape).
func (c *Composer) Cancel() { c.closeDropdown() }

// Text returns the current input text.
func (c *Composer) Text() string { return c.text }

// Cursor returns the current cursor byte offset.
func (c *Composer) Cursor() int { return c.cursor }

// Mentions returns the members mentioned in this composition, in the order
// they were last committed.
func (c *Composer) Mentions() []directory.Member {
	out := make([]directory.Member, len(c.mentions))
	copy(out, c.mentions)
	return out
}

// Reset clears the composition after a submit or an abandoned compose box.
func (c *Composer) Reset() {
	c.text = ""
	c.cursor = 0
	c.mentions = nil
	c.closeDropdown()
}

func (c *Composer) closeDropdown() {
	c.active = false
	c.candidates = nil
	c.index = 0
	c.trigger = Trigger{}
}

// recordMention dedupes by member id, keeping the most recent commit last.
func (c *Composer) recordMention(member directory.Member) {
	kept := c.mentions[:0]
	for _, m := range c.mentions {
		if m.ID != member.ID {
			kept = append(kept, m)
		}
	}
	c.mentions = append(kept, member)
}
