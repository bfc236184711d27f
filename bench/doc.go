// Package bench contains the benchmark suites.
//
// Each suite has a Name and a Run method returning report measurements.
// Suites talk to the engine only through the interfaces in this package,
// so any implementation can be measured; vsa provides the reference one.
//
//	eng := vsa.New()
//	ms, err := (&bench.VSA{Engine: eng}).Run(ctx, harness.Config{Profile: harness.Quick})
package bench
