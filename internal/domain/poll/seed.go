package poll

import "time"

// SeedPolls returns the polls a fresh store starts with, expiring relative to now.
func SeedPolls(now time.Time) []Poll {
	now = now.UTC()
	return []Poll{
		{
			Question: "Which sustainable transportation method should Hanoi prioritize?",
			Options: []Option{
				{Text: "Expand the metro system", Votes: 42},
				{Text: "More electric buses", Votes: 28},
				{Text: "Bike-sharing programs", Votes: 18},
				{Text: "Electric car infrastructure", Votes: 12},
			},
			ExpiresAt: now.AddDate(0, 0, 7),
			CreatedAt: now,
		},
		{
			Question: "What's your biggest challenge in adopting sustainable practices in Hanoi?",
			Options: []Option{
				{Text: "Higher cost of eco-friendly products", Votes: 35},
				{Text: "Limited availability of sustainable options", Votes: 28},
				{Text: "Lack of knowledge about what actually helps", Votes: 22},
				{Text: "Inconvenience in daily routines", Votes: 15},
			},
			ExpiresAt: now.AddDate(0, 0, 14),
			CreatedAt: now,
		},
	}
}
