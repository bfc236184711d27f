package vsa

import "runtime"

func maxWorkers() int {
	return runtime.GOMAXPROCS(0)
}
