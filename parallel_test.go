package bitrank

import "testing"

func TestBuildParallel(t *testing.T) {
	patterns := [][]bool{
		alternatingPattern(2000, 2),
		alternatingPattern(3001, 5),
		randomPattern(5000, 0.3, 11),
		randomPattern(9999, 0.6, 12),
	}

	jobs := make([]BuildJob, len(patterns))
	for i, p := range patterns {
		p := p
		jobs[i] = BuildJob{
			Length: uint64(len(p)),
			Fill: func(bv *BitVector) {
				for pos, b := range p {
					if b {
						bv.Set(uint64(pos))
					}
				}
			},
			BuildSelect: true,
		}
	}

	results, err := BuildParallel(jobs)
	if err != nil {
		t.Fatalf("BuildParallel: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(jobs))
	}

	for i, res := range results {
		p := patterns[i]
		defer res.BitVector.Release()

		for pos, want := range p {
			if got := res.BitVector.IsSet(uint64(pos)); got != want {
				t.Fatalf("job %d: IsSet(%d) = %v, want %v", i, pos, got, want)
			}
		}
		ones := naiveRank1(p, uint64(len(p)))
		if got := res.BitVector.Rank1(uint64(len(p))); got != ones {
			t.Fatalf("job %d: Rank1(len) = %d, want %d", i, got, ones)
		}
		if res.Select == nil {
			t.Fatalf("job %d: Select index missing", i)
		}
		for rank := uint64(1); rank <= ones; rank += 7 {
			want := naiveSelect1(p, rank)
			if got := res.Select.Select1(rank); got != want {
				t.Fatalf("job %d: Select1(%d) = %d, want %d", i, rank, got, want)
			}
		}
	}
}

func TestBuildParallelErrorPropagation(t *testing.T) {
	jobs := []BuildJob{
		{Length: 1000},
		{Length: 1000, ParamOptions: []ParamOption{WithBlockWidth(0)}},
		{Length: 1000},
	}
	if _, err := BuildParallel(jobs); err == nil {
		t.Fatal("BuildParallel with an invalid job succeeded, want error")
	}
}
