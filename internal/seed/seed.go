// Package seed 演示数据：两名账号、八个 2025 届岗位、三篇指南。
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"work-placement/internal/domain"
)

func img(photo string) []string {
	return []string{"https://images.unsplash.com/" + photo + "?auto=format&fit=crop&w=800&q=80"}
}

func Users() []domain.User {
	return []domain.User{
		{
			ID: "u1", SequenceNumber: 1, Name: "Alice Student", Role: domain.RoleStudent, Score: 8.5,
			ProgramYear: "2025", School: "Tech Univ", Phone: "138-0000-0000",
			EmergencyContacts: []domain.EmergencyContact{
				{Name: "Dad (李父)", Phone: "13900000000", Relationship: "Family ❤️"},
				{Name: "John Doe", Phone: "+1 555-0199", Email: "john@example.com", Relationship: "Boss 💼"},
			},
		},
		{ID: "u2", SequenceNumber: 0, Name: "Bob Admin", Role: domain.RoleAdmin},
	}
}

func Jobs() []domain.Job {
	return []domain.Job{
		{
			ID: "j1", SequenceNumber: 1, Title: "Resort Lifeguard", Location: "Wisconsin Dells, WI",
			CompanyName: "Wisconsin Dells Resort", ProgramYear: "2025",
			Description: "Provide safety and hospitality to guests at our water park. Certification training provided. Housing available nearby.",
			HousingType: "Provided", HousingCost: "$150/wk", Salary: "$16.00/hr",
			StartDateRange: "Jun 15 - Jun 30", EndDate: "Sept 15, 2025",
			Capacity: 10, MinScore: 6.0, Tags: []string{"Lifeguard", "Fun"},
			ImageURLs: img("photo-1576014131795-d440191a8e8b"),
		},
		{
			ID: "j2", SequenceNumber: 2, Title: "Line Cook", Location: "Myrtle Beach, SC",
			CompanyName: "Ocean View Restaurant", ProgramYear: "2025",
			Description: "Assist in food preparation and station maintenance. Previous kitchen experience preferred but not required.",
			HousingType: "Assistance", HousingCost: "$120/wk", Salary: "$18.50/hr",
			StartDateRange: "May 20 - Jun 10", EndDate: "Sept 15, 2025",
			Capacity: 5, MinScore: 7.0, Tags: []string{"Culinary", "Busy"},
			ImageURLs: img("photo-1414235077428-338989a2e8c0"),
		},
		{
			ID: "j3", SequenceNumber: 3, Title: "Amusement Park Attendant", Location: "Sandusky, OH",
			CompanyName: "Cedar Point", ProgramYear: "2025",
			Description: "Operate rides and games, ensuring guest safety and enjoyment in a fast-paced environment.",
			HousingType: "Dorm Style", HousingCost: "$100/wk", Salary: "$15.50/hr",
			StartDateRange: "Jun 1 - Jun 20", EndDate: "Sept 10, 2025",
			Capacity: 20, MinScore: 6.5, Tags: []string{"Theme Park", "Outdoors"},
			ImageURLs: img("photo-1513883049090-d0b7439799bf"),
		},
		{
			ID: "j4", SequenceNumber: 4, Title: "Housekeeping Staff", Location: "Gatlinburg, TN",
			CompanyName: "Smoky Mountain Lodge", ProgramYear: "2025",
			Description: "Maintain cleanliness of guest rooms and public areas. Detail-oriented and reliable staff needed.",
			HousingType: "Provided", HousingCost: "$130/wk", Salary: "$17.00/hr",
			StartDateRange: "Jun 10 - Jun 25", EndDate: "Sept 30, 2025",
			Capacity: 8, MinScore: 6.0, Tags: []string{"Hospitality", "Indoor"},
			ImageURLs: img("photo-1584622650111-993a426fbf0a"),
		},
		{
			ID: "j5", SequenceNumber: 5, Title: "Retail Sales Associate", Location: "Ocean City, MD",
			CompanyName: "Sun & Surf Shop", ProgramYear: "2025",
			Description: "Assist customers with merchandise, operate cash register, and keep the store organized.",
			HousingType: "Self-Arranged", HousingCost: "N/A", Salary: "$15.00/hr",
			StartDateRange: "May 25 - Jun 15", EndDate: "Sept 5, 2025",
			Capacity: 4, MinScore: 7.5, Tags: []string{"Sales", "Beach"},
			ImageURLs: img("photo-1441986300917-64674bd600d8"),
		},
		{
			ID: "j6", SequenceNumber: 6, Title: "National Park Server", Location: "Yellowstone, WY",
			CompanyName: "Yellowstone Dining", ProgramYear: "2025",
			Description: "Serve meals to park visitors in a high-volume dining hall. Great opportunity to see nature.",
			HousingType: "Dormitory", HousingCost: "$80/wk", Salary: "$14.00/hr + Tips",
			StartDateRange: "May 15 - Jun 5", EndDate: "Oct 1, 2025",
			Capacity: 15, MinScore: 8.0, Tags: []string{"Nature", "Server"},
			ImageURLs: img("photo-1551632436-cbf8dd354ca8"),
		},
		{
			ID: "j7", SequenceNumber: 7, Title: "Ice Cream Scooper", Location: "Cape Cod, MA",
			CompanyName: "Seaside Scoops", ProgramYear: "2025",
			Description: "Scoop ice cream and make sundaes for happy vacationers. Must be friendly and energetic!",
			HousingType: "Shared House", HousingCost: "$160/wk", Salary: "$16.50/hr",
			StartDateRange: "Jun 20 - Jul 1", EndDate: "Sept 1, 2025",
			Capacity: 3, MinScore: 6.5, Tags: []string{"Food", "Fun"},
			ImageURLs: img("photo-1560008581-09826d1de69e"),
		},
		{
			ID: "j8", SequenceNumber: 8, Title: "Camp Counselor", Location: "Asheville, NC",
			CompanyName: "Mountain Kids Camp", ProgramYear: "2025",
			Description: "Lead activities and supervise children in an outdoor camp setting. Experience with kids required.",
			HousingType: "Cabin Provided", HousingCost: "Free", Salary: "$3000/season",
			StartDateRange: "Jun 1 - Jun 5", EndDate: "Aug 15, 2025",
			Capacity: 6, MinScore: 8.5, Tags: []string{"Kids", "Outdoor"},
			ImageURLs: img("photo-1478131143081-80f7f84ca84d"),
		},
	}
}

func Guides() []domain.Guide {
	return []domain.Guide{
		{ID: "g1", Title: "Visa Interview ✨", Content: "## Interview Tips\nBe honest and confident. Smile!"},
		{ID: "g2", Title: "Packing List 🧳", Content: "## Essentials\n- Passport\n- DS-2019\n- Adaptors"},
		{ID: "g3", Title: "Insurance 🏥", Content: "## Coverage\nIncludes emergency medical."},
	}
}

// Load 仓库为空时写入演示数据；已有用户则跳过，可重复调用
func Load(ctx context.Context, s domain.Store, l *zap.Logger) error {
	return s.Atomically(ctx, func(tx domain.Store) error {
		existing, err := tx.Users().List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			l.Info("seed skipped", zap.Int("users", len(existing)))
			return nil
		}
		for _, u := range Users() {
			u := u
			if err := tx.Users().Create(ctx, &u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
		}
		for _, j := range Jobs() {
			j := j
			if err := tx.Jobs().Create(ctx, &j); err != nil {
				return fmt.Errorf("seed job %s: %w", j.ID, err)
			}
		}
		for _, g := range Guides() {
			g := g
			if err := tx.Guides().Create(ctx, &g); err != nil {
				return fmt.Errorf("seed guide %s: %w", g.ID, err)
			}
		}
		l.Info("seed loaded",
			zap.Int("users", len(Users())), zap.Int("jobs", len(Jobs())), zap.Int("guides", len(Guides())))
		return nil
	})
}
