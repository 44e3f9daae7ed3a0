package anomaly

// Bar is one category's mean calories.
type Bar struct {
	Category string  `json:"category" yaml:"category"`
	Mean     float64 `json:"mean" yaml:"mean"`
}

// Mark annotates a bar with its category's selected anomaly.
type Mark struct {
	Category string  `json:"category" yaml:"category"`
	Food     string  `json:"food" yaml:"food"`
	Calories float64 `json:"calories" yaml:"calories"`
}

// ChartData feeds the chart: bars sorted by mean ascending and the anomaly
// marks for the categories that have one, in the same order.
type ChartData struct {
	Bars  []Bar  `json:"bars" yaml:"bars"`
	Marks []Mark `json:"marks" yaml:"marks"`
}

// Chart builds the chart feed from the analysis.
func (r *Result) Chart() ChartData {
	means := make(map[string]float64, len(r.Stats))
	for _, s := range r.Stats {
		means[s.Category] = s.Mean
	}
	var cd ChartData
	for _, c := range r.ChartOrder {
		cd.Bars = append(cd.Bars, Bar{Category: c, Mean: means[c]})
	}
	if r.selection != nil {
		for _, ex := range r.selection.InOrder(r.ChartOrder) {
			cd.Marks = append(cd.Marks, Mark{Category: ex.Category, Food: ex.Name, Calories: ex.Calories})
		}
	}
	return cd
}
