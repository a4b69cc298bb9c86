package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// BuildInfo carries the ldflags-injected build identity.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// resolve returns version, commit, build time, and VCS details from the
// embedded Go build info. ldflags-injected values take priority; VCS info
// from debug.ReadBuildInfo fills in anything left as default.
func (b BuildInfo) resolve() (ver, sha, built, dirty string) {
	ver = b.Version
	sha = b.Commit
	built = b.BuildTime
	if ver == "" {
		ver = "dev"
	}
	if sha == "" {
		sha = "none"
	}
	if built == "" {
		built = "unknown"
	}
	dirty = "clean"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if sha == "none" {
				sha = s.Value
			}
		case "vcs.time":
			if built == "unknown" {
				built = s.Value
			}
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "dirty"
			}
		}
	}

	return
}

func newVersionCmd(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print twinspect version and build details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ver, sha, built, dirty := build.resolve()
			fmt.Fprintf(cmd.OutOrStdout(), "twinspect %s\n  commit:    %s (%s)\n  built:     %s\n  go:        %s\n  platform:  %s/%s\n",
				ver, sha, dirty, built, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
