package stub

import (
	"fmt"
	"time"
)

// SampleProjects returns seed records shaped like the project collection:
// tags as one delimited string, websiteLink from the admin form, year for
// sorting.
func SampleProjects() []Record {
	return []Record{
		{
			"_id": "p1", "title": "Green Schoolyard",
			"description": "Redesigning the schoolyard with native plants and rainwater collection.",
			"creators":    []any{"Ivana K.", "Marko P."},
			"websiteLink": "https://example.org/projects/green-schoolyard",
			"tags":        "Sustainability, Collaboration",
			"imageUrl":    "/uploads/green.jpg",
			"year":        2024,
		},
		{
			"_id": "p2", "title": "Robotics Exchange",
			"description": "Joint robotics workshops with partner schools in three countries.",
			"creators":    []any{"Petra M."},
			"websiteLink": "https://example.org/projects/robotics",
			"tags":        "Technology Innovation",
			"year":        2023,
		},
		{
			"_id": "p3", "title": "Heritage Cookbook",
			"description": "Collecting family recipes into a multilingual cookbook.",
			"creators":    []any{"Ana R.", "Luka B."},
			"websiteLink": "https://example.org/projects/cookbook",
			"tags":        "Culture",
			"year":        2022,
		},
	}
}

// SampleNews returns seed records shaped like the news collection, with a
// deliberate mix of field aliases.
func SampleNews(n int) []Record {
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		rec := Record{
			"_id":     fmt.Sprintf("n%d", i+1),
			"title":   fmt.Sprintf("Newsletter %d", i+1),
			"content": fmt.Sprintf("Issue %d of the program newsletter with updates from partner schools.", i+1),
			"date":    base.AddDate(0, 0, -i).Format(time.RFC3339),
			"tags":    []any{"Newsletter"},
			"link":    fmt.Sprintf("https://example.org/news/%d", i+1),
		}
		// Every third record uses the alias spelling.
		if i%3 == 2 {
			rec = Record{
				"_id":         fmt.Sprintf("n%d", i+1),
				"headline":    fmt.Sprintf("Partner Visit %d", i+1),
				"body":        "A delegation visited the partner school for a project week.",
				"publishedAt": base.AddDate(0, 0, -i).Format(time.RFC3339),
				"categories":  []any{"Exchange", "Youth"},
				"url":         fmt.Sprintf("https://example.org/news/%d", i+1),
			}
		}
		records = append(records, rec)
	}
	return records
}
