package models

import "slices"

// Milestone is a health-benefit checkpoint reached a fixed number of hours after quitting.
type Milestone struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Icon        string  `json:"icon"`
	Benefit     string  `json:"benefit"`
}

// milestones is ordered by ascending Hours.
var milestones = []Milestone{
	{
		ID:          "20min",
		Title:       "Pulse Normalizes",
		Description: "Your blood pressure and pulse rate return to normal.",
		Hours:       0.33,
		Icon:        "heartbeat",
		Benefit:     "Heart is already thanking you!",
	},
	{
		ID:          "8hours",
		Title:       "Oxygen Restored",
		Description: "Carbon monoxide levels in your blood drop to normal. Oxygen levels increase.",
		Hours:       8,
		Icon:        "cloud",
		Benefit:     "Cells getting the oxygen they need.",
	},
	{
		ID:          "24hours",
		Title:       "Heart Risk Drops",
		Description: "Your risk of heart attack begins to decrease significantly.",
		Hours:       24,
		Icon:        "heart",
		Benefit:     "Major milestone! 24 hours clean!",
	},
	{
		ID:          "48hours",
		Title:       "Senses Awaken",
		Description: "Nerve endings start regrowing. Smell and taste noticeably improve.",
		Hours:       48,
		Icon:        "smile-o",
		Benefit:     "Food tastes better already!",
	},
	{
		ID:          "72hours",
		Title:       "Breathing Easy",
		Description: "Bronchial tubes relax, making breathing easier. Energy levels increase.",
		Hours:       72,
		Icon:        "leaf",
		Benefit:     "3 days strong! Nicotine is leaving.",
	},
	{
		ID:          "1week",
		Title:       "One Week Free",
		Description: "Your lungs start to clear. Cilia regain function.",
		Hours:       168,
		Icon:        "star",
		Benefit:     "You made it a whole week!",
	},
	{
		ID:          "2weeks",
		Title:       "Circulation Improves",
		Description: "Blood circulation significantly improves. Walking and exercise become easier.",
		Hours:       336,
		Icon:        "bolt",
		Benefit:     "Physical activity feels better.",
	},
	{
		ID:          "1month",
		Title:       "Lung Recovery",
		Description: "Coughing and shortness of breath decrease. Lung function begins to improve.",
		Hours:       720,
		Icon:        "trophy",
		Benefit:     "One month! Incredible achievement!",
	},
	{
		ID:          "3months",
		Title:       "Circulation Restored",
		Description: "Circulation continues to improve. Lung function increases up to 30%.",
		Hours:       2160,
		Icon:        "rocket",
		Benefit:     "3 months! You are a champion!",
	},
	{
		ID:          "6months",
		Title:       "Airways Clear",
		Description: "Cilia fully regrown. Airways clear mucus more efficiently.",
		Hours:       4320,
		Icon:        "sun-o",
		Benefit:     "Half a year smoke-free!",
	},
	{
		ID:          "1year",
		Title:       "Heart Risk Halved",
		Description: "Your risk of coronary heart disease is now half that of a smoker.",
		Hours:       8760,
		Icon:        "diamond",
		Benefit:     "One year! You did it!",
	},
}

// Milestones returns the reference milestone list in ascending threshold order.
func Milestones() []Milestone {
	return slices.Clone(milestones)
}
