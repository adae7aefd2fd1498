package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/config"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/fetcher"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/filter"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/mapping"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/normalize"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/pipeline"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/scorer"
)

// Input flags, shared by every command that reads a prospect list.
var (
	inputFile   string
	inputSheet  string
	inputSample bool
	mapPairs    []string
	mappingFile string
	todayFlag   string
)

// The sample's contact date column has no alias match.
var sampleOverrides = mapping.Overrides{model.FieldLastContacted: "LastContacted"}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&inputFile, "file", "", "prospect list path or http(s)/ftp URL (.csv, .txt, .xlsx, .xlsm, .zip)")
	pf.StringVar(&inputSheet, "sheet", "", "worksheet name for spreadsheet input (default first sheet)")
	pf.BoolVar(&inputSample, "sample", false, "use the built-in sample prospect list")
	pf.StringArrayVar(&mapPairs, "map", nil, "column override field=column (repeatable, \"-\" unmaps)")
	pf.StringVar(&mappingFile, "mapping", "", "YAML file of field: column overrides")
	pf.StringVar(&todayFlag, "today", "", "reference date YYYY-MM-DD (default current date)")
}

// today returns the reference date for contact ages and follow-ups.
func today() (time.Time, error) {
	if todayFlag == "" {
		return normalize.Day(time.Now()), nil
	}
	t, err := time.Parse(model.DateLayout, todayFlag)
	if err != nil {
		return time.Time{}, eris.Wrap(err, "parse --today")
	}
	return t, nil
}

// loadTable reads the input selected by the flags. --file may be a local
// path or an http(s)/ftp URL.
func loadTable(ctx context.Context) (*model.RawTable, error) {
	if inputSample {
		return fetcher.SampleTable(), nil
	}
	if inputFile == "" {
		return nil, eris.New("no input: pass --file or --sample")
	}
	sheet := inputSheet
	if sheet == "" {
		sheet = cfg.Input.Sheet
	}
	loader := fetcher.NewLoader(fetcher.RemoteOptions{
		Timeout:    cfg.Input.FetchTimeout,
		MaxRetries: cfg.Input.MaxRetries,
	})
	return loader.Load(ctx, inputFile, sheet)
}

// resolveMapping guesses a mapping for raw and applies the sample, file and
// flag overrides in that order.
func resolveMapping(raw *model.RawTable) (mapping.Mapping, error) {
	var sets []mapping.Overrides
	if inputSample {
		sets = append(sets, sampleOverrides)
	}

	path := mappingFile
	if path == "" {
		path = cfg.Input.MappingFile
	}
	if path != "" {
		ov, err := mapping.LoadOverrides(path)
		if err != nil {
			return nil, err
		}
		sets = append(sets, ov)
	}

	ov, err := mapping.ParseOverrides(mapPairs)
	if err != nil {
		return nil, err
	}
	sets = append(sets, ov)

	return mapping.Resolve(raw.Columns, mapping.Merge(sets...))
}

// openSession loads, maps and normalizes the input.
func openSession(ctx context.Context) (*pipeline.Session, time.Time, error) {
	day, err := today()
	if err != nil {
		return nil, time.Time{}, err
	}
	raw, err := loadTable(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	m, err := resolveMapping(raw)
	if err != nil {
		return nil, time.Time{}, err
	}
	s, err := pipeline.NewSession(raw, m, day)
	if err != nil {
		return nil, time.Time{}, err
	}
	return s, day, nil
}

// filterFlags holds the filter and cadence controls of one command.
type filterFlags struct {
	regions      []string
	countries    []string
	companies    []string
	owners       []string
	role         string
	domains      []string
	hideGeneric  bool
	statuses     []string
	priorities   []string
	crm          string
	query        string
	uniqueEmails bool
	highDays     int
	medDays      int
	lowDays      int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVar(&f.regions, "region", nil, "keep regions (MENA, APAC, EMEA, AMER, Other)")
	fl.StringSliceVar(&f.countries, "country", nil, "keep countries")
	fl.StringSliceVar(&f.companies, "company", nil, "keep companies")
	fl.StringSliceVar(&f.owners, "owner", nil, "keep owners; "+filter.Unassigned+" for none")
	fl.StringVar(&f.role, "role", "", "role contains (case-insensitive)")
	fl.StringSliceVar(&f.domains, "domain", nil, "keep email domains")
	fl.BoolVar(&f.hideGeneric, "hide-generic", false, "drop webmail domains")
	fl.StringSliceVar(&f.statuses, "status", nil, "keep statuses; "+filter.Blank+" for empty")
	fl.StringSliceVar(&f.priorities, "priority", nil, "keep priorities; "+filter.Blank+" for empty")
	fl.StringVar(&f.crm, "crm", filter.CRMAll, "present in CRM: All, Yes or No")
	fl.StringVar(&f.query, "query", "", "name or company contains (case-insensitive)")
	fl.BoolVar(&f.uniqueEmails, "unique-emails", false, "keep one row per email")
	fl.IntVar(&f.highDays, "cadence-high", 0, "High priority follow-up days (default from config)")
	fl.IntVar(&f.medDays, "cadence-med", 0, "Med priority follow-up days (default from config)")
	fl.IntVar(&f.lowDays, "cadence-low", 0, "Low priority follow-up days (default from config)")
}

func (f *filterFlags) spec() (filter.Spec, error) {
	switch f.crm {
	case filter.CRMAll, filter.CRMYes, filter.CRMNo:
	default:
		return filter.Spec{}, eris.Errorf("--crm must be All, Yes or No, got %q", f.crm)
	}

	regions := make([]model.Region, len(f.regions))
	for i, r := range f.regions {
		regions[i] = model.Region(r)
	}
	return filter.Spec{
		Regions:      regions,
		Countries:    f.countries,
		Companies:    f.companies,
		Owners:       f.owners,
		RoleContains: f.role,
		Domains:      f.domains,
		HideGeneric:  f.hideGeneric,
		Statuses:     f.statuses,
		Priorities:   f.priorities,
		CRM:          f.crm,
		Query:        f.query,
		UniqueEmails: f.uniqueEmails,
	}, nil
}

// cadence overlays the non-zero cadence flags on the configured cadence.
func (f *filterFlags) cadence(base config.CadenceConfig) (config.CadenceConfig, error) {
	c := base
	if f.highDays != 0 {
		c.HighDays = f.highDays
	}
	if f.medDays != 0 {
		c.MedDays = f.medDays
	}
	if f.lowDays != 0 {
		c.LowDays = f.lowDays
	}
	if err := scorer.ValidateCadence(c); err != nil {
		return config.CadenceConfig{}, err
	}
	return c, nil
}

// explore opens the session and runs the filtered, scored view.
func (f *filterFlags) explore(ctx context.Context) (*pipeline.Session, pipeline.Result, error) {
	spec, err := f.spec()
	if err != nil {
		return nil, pipeline.Result{}, err
	}
	cadence, err := f.cadence(cfg.Cadence)
	if err != nil {
		return nil, pipeline.Result{}, err
	}
	s, day, err := openSession(ctx)
	if err != nil {
		return nil, pipeline.Result{}, err
	}
	res, err := s.Explore(spec, cadence, day)
	if err != nil {
		return nil, pipeline.Result{}, err
	}
	return s, res, nil
}
