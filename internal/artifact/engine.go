package artifact

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileReport describes one written artifact.
type FileReport struct {
	Name     string
	Filename string
	Records  int
	Bytes    int64
}

// Result summarizes an engine run.
type Result struct {
	Artifacts int
	Records   int
	Bytes     int64
	Files     []FileReport
}

// Engine builds the selected artifacts over one immutable input and writes
// them through the sink.
type Engine struct {
	reg     *Registry
	sink    *Sink
	workers int
}

// NewEngine creates an artifact engine. workers bounds the build fan-out.
func NewEngine(reg *Registry, sink *Sink, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{reg: reg, sink: sink, workers: workers}
}

// Run builds and writes the named artifacts, or all of them when names is
// empty. Any builder or write failure aborts the run; files already renamed
// into place stay valid.
func (e *Engine) Run(ctx context.Context, in *Input, names []string) (*Result, error) {
	log := zap.L().With(zap.String("component", "artifact.engine"))

	builders, err := e.reg.Select(names)
	if err != nil {
		return nil, err
	}
	if len(builders) == 0 {
		log.Info("no artifacts selected")
		return &Result{}, nil
	}

	log.Info("selected artifacts",
		zap.Int("count", len(builders)),
		zap.Int("workers", e.workers),
		zap.String("dir", e.sink.Dir()))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var mu sync.Mutex
	files := make([]FileReport, 0, len(builders))

	for _, b := range builders {
		g.Go(func() error {
			start := time.Now()

			res, err := b.Build(gCtx, in)
			if err != nil {
				return eris.Wrapf(err, "engine: build %s", b.Name())
			}
			size, err := e.sink.Write(b.Filename(), res.Payload)
			if err != nil {
				return eris.Wrapf(err, "engine: write %s", b.Filename())
			}

			log.Info("artifact written",
				zap.String("artifact", b.Name()),
				zap.String("file", b.Filename()),
				zap.Int("records", res.Records),
				zap.Int64("bytes", size),
				zap.Duration("elapsed", time.Since(start)),
			)

			mu.Lock()
			files = append(files, FileReport{
				Name:     b.Name(),
				Filename: b.Filename(),
				Records:  res.Records,
				Bytes:    size,
			})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	result := &Result{Artifacts: len(files), Files: files}
	for _, f := range files {
		result.Records += f.Records
		result.Bytes += f.Bytes
	}

	log.Info("engine run complete",
		zap.Int("artifacts", result.Artifacts),
		zap.Int("records", result.Records),
		zap.Int64("bytes", result.Bytes),
	)
	return result, nil
}
