package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/0x0FACED/go-wedge/pkg/clipback"
	"github.com/0x0FACED/go-wedge/pkg/logger"
	"github.com/0x0FACED/go-wedge/pkg/wedge"
	"github.com/0x0FACED/go-wedge/static"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Развертки для фиксированной раскладки: покрывают обычный сектор,
// стирающий, почти-полуоборот, полный круг и нулевой (тот пропускается).
var fixedSweeps = []float64{45, 90, 150, 180, 240, 300, 360, 0}

// Генерируем случайные клинья в поле width x height
func generateRandWedges(n, width, height int, outer float64, inner *float64) []wedge.WedgeSpec {
	specs := make([]wedge.WedgeSpec, 0, n)
	for i := 0; i < n; i++ {
		start := rand.Float64() * 360
		specs = append(specs, wedge.WedgeSpec{
			ID:           fmt.Sprintf("wedge-%02d", i+1),
			CenterX:      float64(rand.Intn(width)),
			CenterY:      float64(rand.Intn(height)),
			StartBearing: start,
			EndBearing:   start + 20 + rand.Float64()*340,
			OuterRadius:  outer,
			InnerRadius:  inner,
		})
	}
	return specs
}

func generateFixWedges(n, width, height int, outer float64, inner *float64) []wedge.WedgeSpec {
	specs := make([]wedge.WedgeSpec, 0, n)

	rows := int(math.Sqrt(float64(n)))
	if rows < 1 {
		rows = 1
	}
	cols := (n + rows - 1) / rows

	xStep := float64(width) / float64(cols)
	yStep := float64(height) / float64(rows)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			// условие нужно, ибо сетка может вмещать больше клиньев, чем запрошено
			if len(specs) < n {
				k := len(specs)
				start := float64((k * 75) % 360)
				specs = append(specs, wedge.WedgeSpec{
					ID:           fmt.Sprintf("wedge-%02d", k+1),
					CenterX:      xStep/2 + float64(j)*xStep,
					CenterY:      yStep/2 + float64(i)*yStep,
					StartBearing: start,
					EndBearing:   start + fixedSweeps[k%len(fixedSweeps)],
					OuterRadius:  outer,
					InnerRadius:  inner,
				})
			} else { // ломаем цикл
				break
			}
		}
	}

	return specs
}

func prepareScatter(scatter *charts.Scatter) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "580px",
			Width:  "1020px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                "Секторы и арочные полосы",
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Ширина",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Высота",
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

// Преобразуем коллекцию клиньев в Echarts для отображения
func wedgesToEcharts(specs []wedge.WedgeSpec, coll *wedge.Collection) *charts.Scatter {
	scatter := charts.NewScatter()

	points := make([]opts.ScatterData, 0)
	for _, spec := range specs {
		points = append(points, opts.ScatterData{
			Value: []float64{spec.CenterX, spec.CenterY},
		})
	}

	// Дизайним скаттер
	prepareScatter(scatter)

	scatter.AddSeries("Центры", points).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)

	for _, feat := range coll.Features {
		for _, ring := range feat.Shape.Rings() {
			line := charts.NewLine()
			line.SetGlobalOptions(
				charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
				charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
			)

			data := make([]opts.LineData, 0, len(ring))
			for _, p := range ring {
				data = append(data, opts.LineData{Value: []float64{p.X, p.Y}})
			}

			line.AddSeries("Контуры", data).SetSeriesOptions(
				charts.WithLineStyleOpts(opts.LineStyle{
					Width: 2,
				}),
			)

			scatter.Overlap(line)
		}
	}

	return scatter
}

// http обработчик страницы с картиной клиньев и формой для ввода данных
func wedgeHandler(w http.ResponseWriter, r *http.Request) {
	width := 1000
	height := 1000
	numWedges := 8
	outer := 120.0
	innerVal := 0.0
	var isRandom bool

	if r.Method == http.MethodPost {
		r.ParseForm()
		width, _ = strconv.Atoi(r.FormValue("width"))
		height, _ = strconv.Atoi(r.FormValue("height"))
		numWedges, _ = strconv.Atoi(r.FormValue("wedges"))
		outer, _ = strconv.ParseFloat(r.FormValue("outer"), 64)
		innerVal, _ = strconv.ParseFloat(r.FormValue("inner"), 64)
		isRandom = r.FormValue("random") == "true"
	}

	var inner *float64
	if innerVal > 0 {
		inner = wedge.Inner(innerVal)
	}

	var specs []wedge.WedgeSpec
	if isRandom {
		specs = generateRandWedges(numWedges, width, height, outer, inner)
	} else {
		specs = generateFixWedges(numWedges, width, height, outer, inner)
	}

	log := logger.New()
	defer log.ClearLogs()

	backend := clipback.New()
	proc := wedge.NewProcessor(backend, log)

	coll, err := proc.Process(r.Context(), specs)
	if err != nil {
		log.Error("[web] часть клиньев не построена", zap.Error(err))
	}

	scatter := wedgesToEcharts(specs, coll)
	for _, feat := range coll.Features {
		backend.Release(feat.Shape)
	}

	fmt.Fprintln(w, static.Part1)

	if err := scatter.Render(w); err != nil {
		fmt.Println("Ошибка рендеринга картины:", err)
	}

	fmt.Fprintln(w, static.Part2)

	// Вставляем логи в HTML
	for _, entry := range log.Logs {
		fmt.Fprintln(w, entry)
	}

	fmt.Fprintln(w, static.Part3)
}

func main() {
	log := logger.NewConsole(zapcore.InfoLevel)

	router := mux.NewRouter()
	router.HandleFunc("/", wedgeHandler).Methods(http.MethodGet, http.MethodPost)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      router,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	go func() {
		log.Info("[web] сервер запущен", zap.String("addr", "http://localhost"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("[web] сервер упал", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("[web] ошибка остановки", zap.Error(err))
	}
	log.Info("[web] сервер остановлен")
}
