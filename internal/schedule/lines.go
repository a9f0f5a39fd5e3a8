// Package schedule holds the hand-curated HCMC metro line data. The station
// order within each line is the physical order along the track and is the
// authoritative ordering for every derived list.
package schedule

import "github.com/lpnguyen0310/metro-search/internal/models"

// lines is the static schedule. Canonical names carry the generic "Ga " prefix
// for readability; it is stripped before matching and display.
var lines = []models.Line{
	{
		ID:       models.LineM1,
		Color:    models.GetLineColor(models.LineM1),
		Title:    "Tuyến Metro số 1",
		Subtitle: "Bến Thành – Suối Tiên",
		Stations: []string{
			"Ga Bến Thành",
			"Ga Nhà hát Thành phố",
			"Ga Ba Son",
			"Ga Công viên Văn Thánh",
			"Ga Tân Cảng",
			"Ga Thảo Điền",
			"Ga An Phú",
			"Ga Rạch Chiếc",
			"Ga Phước Long",
			"Ga Bình Thái",
			"Ga Thủ Đức",
			"Ga Khu Công nghệ cao",
			"Ga Đại học Quốc gia",
			"Ga Bến xe Suối Tiên",
		},
	},
	{
		ID:       models.LineM2,
		Color:    models.GetLineColor(models.LineM2),
		Title:    "Tuyến Metro số 2",
		Subtitle: "Bến Thành – Tham Lương",
		Stations: []string{
			"Ga Bến Thành",
			"Ga Tao Đàn",
			"Ga Dân Chủ",
			"Ga Hòa Hưng",
			"Ga Lê Thị Riêng",
			"Ga Phạm Văn Hai",
			"Ga Bảy Hiền",
			"Ga Nguyễn Hồng Đào",
			"Ga Bà Quẹo",
			"Ga Phạm Văn Bạch",
			"Ga Tân Bình",
		},
	},
}

// Lines returns the full schedule. Callers must treat the result as read-only.
func Lines() []models.Line {
	return lines
}

// LineByID returns the schedule entry for a line, or false if unknown.
func LineByID(id models.LineID) (models.Line, bool) {
	for _, l := range lines {
		if l.ID == id {
			return l, true
		}
	}
	return models.Line{}, false
}
