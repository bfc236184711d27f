package vsabench_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/vsabench"
	"github.com/hupe1980/vsabench/bench"
	"github.com/hupe1980/vsabench/harness"
	"github.com/hupe1980/vsabench/vsa"
)

func ExampleSession() {
	eng := vsa.New(vsa.WithDimension(2_000), vsa.WithSparsity(20))

	sess := vsabench.NewSession(harness.Config{Profile: harness.Quick, Seed: 42})
	sess.Add(&bench.VSA{Engine: eng})

	rep, err := sess.Run(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(rep.Run.Profile, rep.Run.Seed)
	for _, m := range rep.Measurements {
		fmt.Println(m.Name, m.Iters)
	}
	// Output:
	// quick 42
	// vsa.sparsevec.bundle 300
	// vsa.sparsevec.bind 300
	// vsa.sparsevec.cosine 300
	// vsa.sparsevec.bundle_many_3 300
}

func ExampleSession_Select() {
	eng := vsa.New()
	sess := vsabench.NewSession(harness.Config{}).Add(
		&bench.VSA{Engine: eng},
		&bench.IO{},
		&bench.Encode{Engine: eng},
	)

	fmt.Println(sess.Select("encode", "vsa"))
	fmt.Println(sess.Names())
	// Output:
	// <nil>
	// [vsa encode]
}
