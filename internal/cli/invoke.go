package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxRequestSize bounds a single request line
const maxRequestSize = 1 << 20

// InvokeCmd bridges a host application to the credential store.
// Each stdin line is a JSON request; each stdout line is the JSON response.
type InvokeCmd struct {
	Rate  float64 `help:"Maximum requests per second (0 = unlimited)" default:"0"`
	Burst int     `help:"Requests allowed in a burst when --rate is set" default:"1"`
}

// Run executes the invoke loop until EOF or interrupt
func (cmd *InvokeCmd) Run(sp *StoreProvider, streams *Streams, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return cmd.serve(ctx, sp, streams, logger)
}

func (cmd *InvokeCmd) serve(ctx context.Context, sp *StoreProvider, streams *Streams, logger *zap.Logger) error {
	store, err := sp.Store()
	if err != nil {
		return err
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cmd.Rate > 0 {
		burst := cmd.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cmd.Rate), burst)
	}

	lines, scanErr := readLines(ctx, streams.In)
	enc := json.NewEncoder(streams.Out)

	served := 0
	for {
		var line []byte
		select {
		case <-ctx.Done():
			logger.Debug("invoke stopped", zap.Error(ctx.Err()), zap.Int("served", served))
			return nil
		case l, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("failed to read request: %w", err)
				}
				logger.Debug("invoke finished", zap.Int("served", served))
				return nil
			}
			line = l
		}

		if err := limiter.Wait(ctx); err != nil {
			logger.Debug("invoke stopped", zap.Error(err), zap.Int("served", served))
			return nil
		}

		resp := store.Handle(line)
		served++
		logger.Debug("invoke",
			zap.String("cmd", resp.Command),
			zap.String("key", resp.Key),
			zap.Bool("success", resp.Success),
			zap.Stringer("kind", resp.Kind),
		)

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

// readLines feeds non-empty lines from r until EOF or cancellation.
// The scan error (nil at EOF or on cancellation) is sent before lines closes.
// A read blocked on idle input outlives cancellation; the process exits around it.
func readLines(ctx context.Context, r io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			errc <- err
			close(lines)
		}()

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
		for scanner.Scan() {
			if len(scanner.Bytes()) == 0 {
				continue
			}
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	return lines, errc
}
