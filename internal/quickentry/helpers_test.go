package quickentry_test

import (
	"bookkeeper/internal/quickentry"
	"bookkeeper/pkg/domain"
	"time"
)

const testUser = domain.UserID("U1001")

func testCategories() []domain.CategoryRecord {
	return []domain.CategoryRecord{
		{MajorCode: "5", MajorName: "餐飲", SubCode: "501", SubName: "午餐", Synonyms: []string{"中餐", "lunch"}},
		{MajorCode: "5", MajorName: "餐飲", SubCode: "502", SubName: "咖啡", Synonyms: []string{"拿鐵"}},
		{MajorCode: "4", MajorName: "收入", SubCode: "401", SubName: "薪水", Synonyms: []string{"薪資", "月薪"}},
		{MajorCode: "6", MajorName: "交通", SubCode: "601", SubName: "計程車", Synonyms: []string{"小黃", "taxi"}},
		{MajorCode: "6", MajorName: "交通", SubCode: "602", SubName: "高鐵", Synonyms: []string{"高速鐵路"}},
	}
}

func taipei() *time.Location {
	return quickentry.DefaultOptions().Location
}

// fixedClock returns a clock stuck at 2025-07-15 12:30 in Taipei.
func fixedClock() func() time.Time {
	t := time.Date(2025, 7, 15, 12, 30, 0, 0, taipei())

	return func() time.Time { return t }
}
