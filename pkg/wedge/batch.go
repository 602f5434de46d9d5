package wedge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/0x0FACED/go-wedge/pkg/logger"
	"go.uber.org/zap"
)

// Feature — готовый полигон с меткой исходного клина.
type Feature struct {
	ID    string
	Shape Polygon
}

// Collection — итог батча: фигуры строго в порядке входа плюс
// идентификаторы пропущенных нулевых клиньев. Слияние коллекции не
// растворяет фигуры разных клиньев друг в друге.
type Collection struct {
	Features []Feature
	Skipped  []string
}

// Processor превращает набор WedgeSpec в коллекцию полигонов через
// геометрический бэкенд. Единственная точка входа — Process.
type Processor struct {
	Backend Backend
	Logger  *logger.ZapLogger
	// Workers — размер пула. Меньше двух — последовательная обработка.
	Workers int
}

func NewProcessor(backend Backend, log *logger.ZapLogger) *Processor {
	return &Processor{
		Backend: backend,
		Logger:  log,
		Workers: 1,
	}
}

// Process обрабатывает клинья по порядку входа. Отказ одного клина не
// останавливает остальные: отказы копятся и возвращаются одним
// *BatchError после прохода, успешные фигуры — в коллекции. Досрочно
// батч прерывается только по ErrBackendDown или отмене контекста;
// отмена проверяется между клиньями, начатый сектор достраивается.
func (p *Processor) Process(ctx context.Context, specs []WedgeSpec) (*Collection, error) {
	n := len(specs)
	p.Logger.Info("[batch] старт", zap.Int("wedges", n), zap.Int("workers", p.Workers))

	results := make([]Polygon, n)
	skipped := make([]bool, n)
	batchErr := &BatchError{}

	if p.Workers > 1 {
		p.runPool(ctx, specs, results, skipped, batchErr)
	} else {
		p.runSequential(ctx, specs, results, skipped, batchErr)
	}

	coll := &Collection{}
	for i, spec := range specs {
		switch {
		case results[i] != nil:
			coll.Features = append(coll.Features, Feature{ID: spec.ID, Shape: results[i]})
		case skipped[i]:
			coll.Skipped = append(coll.Skipped, spec.ID)
		}
	}

	p.Logger.Info("[batch] готово",
		zap.Int("features", len(coll.Features)),
		zap.Int("skipped", len(coll.Skipped)),
		zap.Int("failed", len(batchErr.Failures)),
	)

	return coll, batchErr.orNil()
}

func (p *Processor) runSequential(ctx context.Context, specs []WedgeSpec, results []Polygon, skipped []bool, batchErr *BatchError) {
	for i, spec := range specs {
		if err := ctx.Err(); err != nil {
			batchErr.Failures = append(batchErr.Failures, SpecFailure{
				ID:  spec.ID,
				Err: fmt.Errorf("batch canceled before this wedge: %w", err),
			})
			return
		}

		poly, skip, err := p.processOne(i, len(specs), spec)
		if err != nil {
			batchErr.Failures = append(batchErr.Failures, SpecFailure{ID: spec.ID, Err: err})
			if errors.Is(err, ErrBackendDown) {
				p.Logger.Error("[batch] бэкенд неработоспособен, батч прерван", zap.String("id", spec.ID))
				return
			}
			continue
		}

		results[i] = poly
		skipped[i] = skip
	}
}

type wedgeJob struct {
	idx  int
	spec WedgeSpec
}

type wedgeResult struct {
	idx  int
	poly Polygon
	skip bool
	err  error
}

// runPool раздает клинья пулу воркеров. Каждый воркер строит геометрию
// своего клина со своими дескрипторами; сборка результатов идет в одном
// потоке по индексу входа, так что итог совпадает с последовательным.
func (p *Processor) runPool(ctx context.Context, specs []WedgeSpec, results []Polygon, skipped []bool, batchErr *BatchError) {
	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	inCh := make(chan wedgeJob, p.Workers*2)
	outCh := make(chan wedgeResult, p.Workers*2)

	var wg sync.WaitGroup
	wg.Add(p.Workers)
	for w := 0; w < p.Workers; w++ {
		go func() {
			defer wg.Done()
			for job := range inCh {
				poly, skip, err := p.processOne(job.idx, len(specs), job.spec)
				if err != nil && errors.Is(err, ErrBackendDown) {
					// дальше кормить пул бессмысленно
					cancel()
				}
				outCh <- wedgeResult{idx: job.idx, poly: poly, skip: skip, err: err}
			}
		}()
	}

	// продюсер: отмена наблюдается только между клиньями
	go func() {
		defer close(inCh)
		for i, spec := range specs {
			select {
			case <-poolCtx.Done():
				return
			case inCh <- wedgeJob{idx: i, spec: spec}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	errs := make([]error, len(specs))
	delivered := make([]bool, len(specs))
	for r := range outCh {
		delivered[r.idx] = true
		if r.err != nil {
			errs[r.idx] = r.err
			continue
		}
		results[r.idx] = r.poly
		skipped[r.idx] = r.skip
	}

	// отказы — в порядке входа, чтобы отчет был детерминированным
	for i, err := range errs {
		if err != nil {
			batchErr.Failures = append(batchErr.Failures, SpecFailure{ID: specs[i].ID, Err: err})
		}
	}

	if err := ctx.Err(); err != nil {
		for i := range specs {
			if !delivered[i] {
				batchErr.Failures = append(batchErr.Failures, SpecFailure{
					ID:  specs[i].ID,
					Err: fmt.Errorf("batch canceled before this wedge: %w", err),
				})
				break
			}
		}
	}
}

// processOne ведет один клин от валидации до готовой фигуры.
// Возвращает (nil, true, nil) для нулевой развертки.
func (p *Processor) processOne(idx, total int, spec WedgeSpec) (Polygon, bool, error) {
	if err := spec.Validate(); err != nil {
		p.Logger.Error("[batch] клин отклонен",
			zap.Int("k", idx+1),
			zap.Int("n", total),
			zap.String("id", spec.ID),
			zap.Error(err),
		)
		return nil, false, err
	}

	sc, theta := Classify(spec.StartBearing, spec.EndBearing)
	if sc == ZeroDegree {
		p.Logger.Info(fmt.Sprintf("[batch] skipping wedge %d of %d (zero-degree)", idx+1, total),
			zap.String("id", spec.ID))
		return nil, true, nil
	}

	p.Logger.Info(fmt.Sprintf("[batch] processing wedge %d of %d", idx+1, total),
		zap.String("id", spec.ID),
		zap.String("case", sc.String()),
		zap.Float64("theta", theta),
	)

	sector, err := p.buildSector(spec.CenterX, spec.CenterY, spec.OuterRadius, spec.StartBearing, spec.EndBearing)
	if err != nil {
		return nil, false, p.wrapBackendErr(spec, err)
	}

	if spec.InnerRadius != nil {
		sector, err = p.trimInner(spec.CenterX, spec.CenterY, *spec.InnerRadius, sector)
		if err != nil {
			return nil, false, p.wrapBackendErr(spec, err)
		}
	}

	return sector, false, nil
}

// wrapBackendErr помечает отказ бэкенда данными клина: id, азимуты и
// радиусы, чтобы отчет читался без исходной таблицы. ErrBackendDown
// пробрасывается как есть — по нему батч прерывается.
func (p *Processor) wrapBackendErr(spec WedgeSpec, err error) error {
	if errors.Is(err, ErrBackendDown) {
		return err
	}
	if spec.InnerRadius != nil {
		return fmt.Errorf("%w: bearings %v..%v, radius %v, inner %v: %v",
			ErrBackendFailure, spec.StartBearing, spec.EndBearing, spec.OuterRadius, *spec.InnerRadius, err)
	}
	return fmt.Errorf("%w: bearings %v..%v, radius %v: %v",
		ErrBackendFailure, spec.StartBearing, spec.EndBearing, spec.OuterRadius, err)
}
