package issues

import "time"

// DemoSeed returns the demo issues a fresh dashboard starts with.
func DemoSeed(now time.Time) []Issue {
	return []Issue{
		{
			ID:               "issue-1",
			Title:            "Shared Database Violation",
			Description:      "Auth Service and Payment Service are sharing the same primary-db. This creates a tight coupling and single point of failure.",
			Type:             TypeArchitecture,
			Priority:         PriorityCritical,
			Status:           StatusOpen,
			LinkedEntityID:   "auth",
			LinkedEntityName: "Auth Service",
			AssignedTo:       "Team Backend",
			CreatedAt:        now,
			Comments: []Comment{
				{
					ID:        "c1",
					Author:    "AI Analyst",
					Content:   "This violation increases blast radius by 40%. Recommended action: Split DB schemas.",
					CreatedAt: now,
				},
				{
					ID:        "c1-r1",
					Author:    "Sarah Chen",
					Content:   "@AI Analyst We are planning this for Q3.",
					CreatedAt: now,
				},
			},
		},
		{
			ID:               "issue-2",
			Title:            "High Latency on Login",
			Description:      "Login endpoint exceeds 500ms p99 latency.",
			Type:             TypeBug,
			Priority:         PriorityHigh,
			Status:           StatusInProgress,
			LinkedEntityID:   "auth",
			LinkedEntityName: "Auth Service",
			AssignedTo:       "Jane Doe",
			CreatedAt:        now,
			Comments:         []Comment{},
		},
	}
}
