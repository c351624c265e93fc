package dto

// DashboardStats is the chart-ready aggregate payload.
type DashboardStats struct {
	TopInterests           []string      `json:"topInterests"`
	BottomInterests        []string      `json:"bottomInterests"`
	DistinctInterests      int           `json:"distinctInterests"`
	ProvincialDistribution []NamedCount  `json:"provincialDistribution"`
	SubmissionsChart       []DateCount   `json:"submissionsChart"`
	AgeDistribution        []AgeCount    `json:"ageDistribution"`
	DepartmentDistribution []NamedCount  `json:"departmentDistribution"`
	DegreeDistribution     []NamedCount  `json:"degreeDistribution"`
	GenderDistribution     []NamedCount  `json:"genderDistribution"`
	Last30DaysActivity     []DateCount   `json:"last30DaysActivity"`
	Last24HoursActivity    []TimeCount   `json:"last24HoursActivity"`
	StudentStatus          []StatusCount `json:"studentStatus"`
	MostActiveHours        []string      `json:"mostActiveHours"`
	LeastActiveHours       []string      `json:"leastActiveHours"`
	DeadHours              []string      `json:"deadHours"`
}

// NamedCount feeds pie charts.
type NamedCount struct {
	Name  string `db:"name" json:"name"`
	Value int    `db:"value" json:"value"`
}

// DateCount is a per-day bucket.
type DateCount struct {
	Date  string `db:"date" json:"date"`
	Count int    `db:"count" json:"count"`
}

// TimeCount is a 15-minute bucket labelled "HH:MM".
type TimeCount struct {
	Time  string `db:"time" json:"time"`
	Count int    `db:"count" json:"count"`
}

// AgeCount is one bar of the age histogram.
type AgeCount struct {
	Age   int `db:"age" json:"age"`
	Count int `db:"count" json:"count"`
}

// HourCount is one hour of the activity histogram.
type HourCount struct {
	Hour  int `db:"hour" json:"hour"`
	Count int `db:"count" json:"count"`
}

// StatusCount is one row of the enrolment status grid.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StudentStatusTotals holds the raw status counts.
type StudentStatusTotals struct {
	Studying         int `db:"studying"`
	RecentlyEnrolled int `db:"recently_enrolled"`
	AboutToGraduate  int `db:"about_to_graduate"`
	Graduated        int `db:"graduated"`
}
