package report

import (
	"os"
	"runtime"
	"strings"

	"github.com/go-git/go-git/v5"
	"golang.org/x/sys/cpu"
)

// Host describes the machine a run executed on.
type Host struct {
	OS        string   `json:"os"`
	Arch      string   `json:"arch"`
	NumCPU    int      `json:"num_cpu"`
	GoVersion string   `json:"go_version"`
	Features  []string `json:"cpu_features"`
}

// CurrentHost inspects the running process.
func CurrentHost() Host {
	return Host{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
		Features:  cpuFeatures(),
	}
}

func cpuFeatures() []string {
	features := []string{}
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}

	switch runtime.GOARCH {
	case "amd64":
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
		add(cpu.X86.HasAVX512BW, "avx512bw")
		add(cpu.X86.HasPOPCNT, "popcnt")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "neon")
		add(cpu.ARM64.HasSVE, "sve")
		add(cpu.ARM64.HasSVE2, "sve2")
	}
	return features
}

// shaLen is the length of the abbreviated revision.
const shaLen = 12

// GitSHA returns the abbreviated HEAD revision of the repository containing
// dir. When dir is not inside a repository it falls back to the GIT_SHA and
// GITHUB_SHA environment variables, and returns nil if neither is set.
func GitSHA(dir string) *string {
	if repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true}); err == nil {
		if head, err := repo.Head(); err == nil {
			return abbrev(head.Hash().String())
		}
	}
	for _, key := range []string{"GIT_SHA", "GITHUB_SHA"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return abbrev(v)
		}
	}
	return nil
}

func abbrev(sha string) *string {
	if len(sha) > shaLen {
		sha = sha[:shaLen]
	}
	return &sha
}
