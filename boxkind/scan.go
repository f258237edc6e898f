package boxkind

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tos-network/oraclepool/box"
	"github.com/tos-network/oraclepool/log"
)

// ScanBallotBoxes validates boxes concurrently and returns the ones that are
// ballot boxes, in input order. Boxes that fail validation are skipped. An
// error is only returned when ctx is cancelled.
func ScanBallotBoxes(ctx context.Context, boxes []*box.ErgoBox, inputs BallotBoxInputs) ([]*BallotBox, error) {
	if inputs.Parameters == nil || inputs.Parameters.VoteParameters == nil {
		return nil, ErrExpectedVoteCast
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		results = make([]*BallotBox, len(boxes))
		indices = make(chan int)
		workers = runtime.NumCPU()
	)
	if workers > len(boxes) {
		workers = len(boxes)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(indices)
		for i := range boxes {
			select {
			case indices <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range indices {
				bb, _, err := NewBallotBox(boxes[i], inputs)
				if err != nil {
					log.Debug("Skipping box, not a ballot box", "box", boxes[i].ID(), "err", err)
					continue
				}
				results[i] = bb
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	found := make([]*BallotBox, 0, len(results))
	for _, bb := range results {
		if bb != nil {
			found = append(found, bb)
		}
	}
	return found, nil
}
