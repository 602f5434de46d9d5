package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/0x0FACED/go-wedge/pkg/clipback"
	"github.com/0x0FACED/go-wedge/pkg/featureio"
	"github.com/0x0FACED/go-wedge/pkg/featuretable"
	"github.com/0x0FACED/go-wedge/pkg/geomback"
	"github.com/0x0FACED/go-wedge/pkg/logger"
	"github.com/0x0FACED/go-wedge/pkg/preview"
	"github.com/0x0FACED/go-wedge/pkg/wedge"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const appVersion = "wedgemaker 1.2.0"

var in = flag.String("in", "", "Input path: .csv table or .db/.sqlite database")
var out = flag.String("out", "", "Output path: .geojson, .wkt or .db/.sqlite (optional with -preview)")
var table = flag.String("table", "wedges", "Input table name (sqlite input only)")
var outTable = flag.String("out-table", "features", "Output table name (sqlite output only)")
var driver = flag.String("driver", "clipper", "Geometry driver: clipper or geom")
var workers = flag.Int("workers", 1, "Worker pool size; 1 keeps processing sequential")
var configPath = flag.String("config", "", "YAML profile; explicit flags win over it")
var showPreview = flag.Bool("preview", false, "Open the result in a terminal viewer")
var debug = flag.Bool("debug", false, "Verbose logging")
var version = flag.Bool("version", false, "Show the application version")

var colID = flag.String("col-id", "", "Override id column name")
var colX = flag.String("col-x", "", "Override center x column name")
var colY = flag.String("col-y", "", "Override center y column name")
var colStart = flag.String("col-start", "", "Override start bearing column name")
var colEnd = flag.String("col-end", "", "Override end bearing column name")
var colOuter = flag.String("col-outer", "", "Override outer radius column name")
var colInner = flag.String("col-inner", "", "Override inner radius column name")

// profile — YAML-зеркало флагов. Явно заданный флаг всегда сильнее профиля.
type profile struct {
	In       string `yaml:"in"`
	Out      string `yaml:"out"`
	Table    string `yaml:"table"`
	OutTable string `yaml:"out_table"`
	Driver   string `yaml:"driver"`
	Workers  int    `yaml:"workers"`
	Columns  struct {
		ID    string `yaml:"id"`
		X     string `yaml:"x"`
		Y     string `yaml:"y"`
		Start string `yaml:"start"`
		End   string `yaml:"end"`
		Outer string `yaml:"outer"`
		Inner string `yaml:"inner"`
	} `yaml:"columns"`
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *version {
		fmt.Println(appVersion)
		return 0
	}

	if *configPath != "" {
		if err := applyProfile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	level := zapcore.InfoLevel
	if *debug {
		level = zapcore.DebugLevel
	}
	log := logger.NewConsole(level)

	if *in == "" {
		fmt.Fprintln(os.Stderr, "wedgemaker: -in is required")
		flag.Usage()
		return 2
	}
	if *out == "" && !*showPreview {
		fmt.Fprintln(os.Stderr, "wedgemaker: nothing to do, pass -out and/or -preview")
		return 2
	}

	cols := columns()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rows, rowErrs, err := readRows(ctx, *in, *table, cols, log)
	if err != nil {
		log.Error("[cli] входная таблица не прочитана", zap.String("path", *in), zap.Error(err))
		return 1
	}
	for _, re := range rowErrs {
		log.Warn("[cli] строка пропущена", zap.Int("line", re.Line), zap.Error(re.Err))
	}

	specs := featureio.Specs(rows)
	attrs := featureio.AttrsByID(rows)

	backend, err := openBackend(*driver)
	if err != nil {
		log.Error("[cli] драйвер не открыт", zap.Error(err))
		return 2
	}

	proc := wedge.NewProcessor(backend, log)
	proc.Workers = *workers

	coll, procErr := proc.Process(ctx, specs)
	if procErr != nil {
		var batchErr *wedge.BatchError
		if errors.As(procErr, &batchErr) {
			for _, f := range batchErr.Failures {
				log.Warn("[cli] клин не построен", zap.String("id", f.ID), zap.Error(f.Err))
			}
		} else {
			log.Error("[cli] батч не завершен", zap.Error(procErr))
		}
	}

	if *out != "" {
		if err := writeOut(ctx, *out, *outTable, coll, attrs, log); err != nil {
			log.Error("[cli] вывод не записан", zap.String("path", *out), zap.Error(err))
			return 1
		}
		log.Info("[cli] вывод записан",
			zap.String("path", *out),
			zap.Int("features", len(coll.Features)),
			zap.Int("skipped", len(coll.Skipped)),
		)
	}

	if *showPreview {
		if err := preview.Run(coll, specs); err != nil {
			log.Error("[cli] просмотрщик завершился с ошибкой", zap.Error(err))
			return 1
		}
	}

	for _, feat := range coll.Features {
		backend.Release(feat.Shape)
	}

	if procErr != nil {
		return 1
	}
	return 0
}

// applyProfile подмешивает значения YAML-профиля во флаги,
// которые пользователь не задал явно.
func applyProfile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("wedgemaker: config: %w", err)
	}
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("wedgemaker: invalid YAML in %s: %w", path, err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	applyStr := func(name string, dst *string, v string) {
		if !set[name] && v != "" {
			*dst = v
		}
	}
	applyStr("in", in, p.In)
	applyStr("out", out, p.Out)
	applyStr("table", table, p.Table)
	applyStr("out-table", outTable, p.OutTable)
	applyStr("driver", driver, p.Driver)
	if !set["workers"] && p.Workers > 0 {
		*workers = p.Workers
	}
	applyStr("col-id", colID, p.Columns.ID)
	applyStr("col-x", colX, p.Columns.X)
	applyStr("col-y", colY, p.Columns.Y)
	applyStr("col-start", colStart, p.Columns.Start)
	applyStr("col-end", colEnd, p.Columns.End)
	applyStr("col-outer", colOuter, p.Columns.Outer)
	applyStr("col-inner", colInner, p.Columns.Inner)
	return nil
}

func columns() featureio.Columns {
	cols := featureio.DefaultColumns()
	if *colID != "" {
		cols.ID = *colID
	}
	if *colX != "" {
		cols.X = *colX
	}
	if *colY != "" {
		cols.Y = *colY
	}
	if *colStart != "" {
		cols.Start = *colStart
	}
	if *colEnd != "" {
		cols.End = *colEnd
	}
	if *colOuter != "" {
		cols.Outer = *colOuter
	}
	if *colInner != "" {
		cols.Inner = *colInner
	}
	return cols
}

func openBackend(name string) (wedge.Backend, error) {
	switch name {
	case "clipper":
		return clipback.New(), nil
	case "geom":
		return geomback.New(), nil
	default:
		return nil, fmt.Errorf("unknown geometry driver %q (want clipper or geom)", name)
	}
}

func readRows(ctx context.Context, path, tableName string, cols featureio.Columns, log *logger.ZapLogger) ([]featureio.Row, []featureio.RowError, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		return featureio.ReadCSV(f, cols)
	case ".db", ".sqlite", ".sqlite3":
		store, err := featuretable.Open(ctx, path, log)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()
		return store.ReadRows(ctx, tableName, cols)
	default:
		return nil, nil, fmt.Errorf("unsupported input %q (want .csv or .db/.sqlite)", path)
	}
}

func writeOut(ctx context.Context, path, tableName string, coll *wedge.Collection, attrs map[string]map[string]string, log *logger.ZapLogger) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return featureio.WriteGeoJSON(f, coll, attrs)
	case ".wkt":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return featureio.WriteWKT(f, coll)
	case ".db", ".sqlite", ".sqlite3":
		store, err := featuretable.Open(ctx, path, log)
		if err != nil {
			return err
		}
		defer store.Close()
		return store.WriteFeatures(ctx, tableName, coll, attrs)
	default:
		return fmt.Errorf("unsupported output %q (want .geojson, .wkt or .db/.sqlite)", path)
	}
}
