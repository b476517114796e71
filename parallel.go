package bitrank

import "golang.org/x/sync/errgroup"

// BuildJob describes one bit vector to construct as part of a
// BuildParallel batch: Fill populates the vector's bits before it is
// finalized, and optionally a select index is attached afterward.
type BuildJob struct {
	Length        uint64
	Fill          func(bv *BitVector)
	BuildSelect   bool
	ParamOptions  []ParamOption
	SelectOptions []SelectOption
}

// BuildResult holds the outcome of one BuildJob.
type BuildResult struct {
	BitVector *BitVector
	Select    *SelectIndex
}

// BuildParallel constructs, fills, and finalizes several independent bit
// vectors concurrently, one goroutine per job, optionally attaching a
// select index to each. Each individual BitVector is still built and
// queried single-threaded; only the batch as a whole runs concurrently.
// If any job fails, BuildParallel returns the first error and no results;
// the other jobs are not cancelled and run to completion.
func BuildParallel(jobs []BuildJob) ([]BuildResult, error) {
	results := make([]BuildResult, len(jobs))
	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			bv, err := NewBitVector(job.Length, job.ParamOptions...)
			if err != nil {
				return err
			}
			if job.Fill != nil {
				job.Fill(bv)
			}
			if err := bv.Finalize(); err != nil {
				return err
			}
			result := BuildResult{BitVector: bv}
			if job.BuildSelect {
				sel, err := NewSelectIndex(bv, job.SelectOptions...)
				if err != nil {
					return err
				}
				result.Select = sel
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
