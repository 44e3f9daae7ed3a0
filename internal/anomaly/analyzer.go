package anomaly

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/nutriscan-cli/internal/food"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoRecords means there was nothing to analyze.
	ErrNoRecords = errors.New("no records to analyze")
	// ErrInvalidConfig means a threshold is negative or not a number.
	ErrInvalidConfig = errors.New("invalid analysis config")
)

// Config controls an analysis run.
type Config struct {
	// Threshold is the |score| above which a record is an anomaly.
	Threshold float64
	// Significance is the |percent difference| at which a nutrient is flagged.
	Significance float64
	StdDev       StdDevMode
	Order        ReportOrder
	Logger       *zap.Logger
}

// DefaultConfig returns the fixed thresholds of the analysis.
func DefaultConfig() Config {
	return Config{
		Threshold:    DefaultThreshold,
		Significance: DefaultSignificance,
		StdDev:       Population,
		Order:        OrderMean,
	}
}

// Finding explains the selected anomaly of one category.
type Finding struct {
	Category    string               `json:"category" yaml:"category"`
	Example     ScoredRecord         `json:"example" yaml:"example"`
	GroupSize   int                  `json:"group_size" yaml:"group_size"`
	Comparisons []NutrientComparison `json:"comparisons" yaml:"comparisons"`
}

// Result is the complete output of one analysis run.
type Result struct {
	RunID        string          `json:"run_id" yaml:"run_id"`
	Threshold    float64         `json:"threshold" yaml:"threshold"`
	Significance float64         `json:"significance" yaml:"significance"`
	StdDev       StdDevMode      `json:"stddev" yaml:"stddev"`
	Order        ReportOrder     `json:"order" yaml:"order"`
	Records      []ScoredRecord  `json:"-" yaml:"-"`
	Stats        []CategoryStats `json:"categories" yaml:"categories"`
	// ChartOrder is every category sorted by mean calories ascending.
	ChartOrder []string  `json:"chart_order" yaml:"chart_order"`
	Findings   []Finding `json:"findings" yaml:"findings"`

	selection *Selection
	groups    map[string][]food.Record
}

// Selection returns the representative anomaly per category.
func (r *Result) Selection() *Selection { return r.selection }

// Group returns the records of a category in input order.
func (r *Result) Group(category string) []food.Record { return r.groups[category] }

// Anomalies counts every flagged record, selected or not.
func (r *Result) Anomalies() int {
	n := 0
	for _, s := range r.Records {
		if s.Anomaly {
			n++
		}
	}
	return n
}

// Analyzer runs the scoring, detection, selection and comparison pipeline.
type Analyzer struct {
	cfg Config
	log *zap.Logger
}

// Validate rejects negative or NaN thresholds. Zero is a literal threshold.
func (c Config) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 {
		return fmt.Errorf("%w: threshold %v", ErrInvalidConfig, c.Threshold)
	}
	if math.IsNaN(c.Significance) || c.Significance < 0 {
		return fmt.Errorf("%w: significance %v", ErrInvalidConfig, c.Significance)
	}
	return nil
}

// New builds an Analyzer. Thresholds are used as given; start from
// DefaultConfig for the standard ones. Empty modes fall back to the defaults.
func New(cfg Config) *Analyzer {
	if cfg.StdDev == "" {
		cfg.StdDev = Population
	}
	if cfg.Order == "" {
		cfg.Order = OrderMean
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, log: log}
}

// Config returns the effective configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// Analyze runs the full pipeline over records in input order.
func (a *Analyzer) Analyze(records []food.Record) (*Result, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	res := &Result{
		RunID:        uuid.NewString(),
		Threshold:    a.cfg.Threshold,
		Significance: a.cfg.Significance,
		StdDev:       a.cfg.StdDev,
		Order:        a.cfg.Order,
		groups:       make(map[string][]food.Record),
	}
	log := a.log.With(zap.String("run_id", res.RunID))

	for _, r := range records {
		res.groups[r.Category] = append(res.groups[r.Category], r)
	}
	table := GroupStats(records, a.cfg.StdDev)
	res.Stats = table.All()
	for _, s := range res.Stats {
		log.Debug("category stats",
			zap.String("category", s.Category),
			zap.Int("count", s.Count),
			zap.Float64("mean", s.Mean),
			zap.Float64("stddev", s.StdDev),
			zap.Bool("spread", s.Spread()))
	}

	res.Records = Detect(Normalize(records, table), a.cfg.Threshold)
	res.selection = Select(res.Records)
	res.ChartOrder = OrderByMean(res.Stats)

	order := res.ChartOrder
	if a.cfg.Order == OrderEncounter {
		order = res.selection.Categories()
	}
	for _, ex := range res.selection.InOrder(order) {
		group := res.groups[ex.Category]
		cmp, err := Compare(ex.Record, group, a.cfg.Significance)
		if err != nil {
			return nil, fmt.Errorf("compare %q: %w", ex.Name, err)
		}
		res.Findings = append(res.Findings, Finding{
			Category:    ex.Category,
			Example:     ex,
			GroupSize:   len(group),
			Comparisons: cmp,
		})
	}

	log.Info("analysis complete",
		zap.Int("records", len(records)),
		zap.Int("categories", len(res.Stats)),
		zap.Int("anomalies", res.Anomalies()),
		zap.Int("findings", len(res.Findings)))
	return res, nil
}
