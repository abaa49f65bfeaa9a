package idea

import "time"

// Idea is a resident suggestion.
type Idea struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
}

// Submitted is returned after a successful submission.
type Submitted struct {
	Success bool `json:"success"`
	Idea
}

// SeedIdeas returns the ideas a fresh store starts with.
func SeedIdeas() []Idea {
	return []Idea{
		{
			Author:    "EcoFriend",
			Content:   "Hanoi should implement a bike-sharing program similar to those in other major cities. This would reduce traffic congestion and air pollution while providing residents with a healthy transportation option.",
			CreatedAt: time.Date(2023, 7, 10, 8, 30, 0, 0, time.UTC),
			Likes:     24,
			Comments:  5,
		},
		{
			Author:    "GreenThumb",
			Content:   "We need more vertical gardens on buildings in downtown Hanoi. They would help reduce the urban heat island effect, improve air quality, and make the city more beautiful.",
			CreatedAt: time.Date(2023, 7, 15, 14, 45, 0, 0, time.UTC),
			Likes:     18,
			Comments:  3,
		},
		{
			Author:    "CleanCity",
			Content:   "Hanoi should introduce a plastic bag tax or ban at all retail stores. This has been successful in reducing plastic waste in many other cities around the world.",
			CreatedAt: time.Date(2023, 7, 18, 10, 20, 0, 0, time.UTC),
			Likes:     32,
			Comments:  7,
		},
	}
}
