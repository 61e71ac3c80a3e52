// Command gen-golden regenerates the golden renders under testdata. Every
// markdown file directly under the root is rendered once per width and
// written next to it as NAME.wWIDTH.golden.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"pkt.systems/mdriver"
)

func main() {
	root := pflag.String("root", "testdata", "directory holding the markdown sources")
	widths := pflag.IntSlice("widths", nil, "widths to render (default: existing goldens, else 40,60,80)")
	pflag.Parse()

	sources, err := filepath.Glob(filepath.Join(*root, "*.md"))
	if err != nil {
		fatalf("glob %s: %v", *root, err)
	}
	if len(sources) == 0 {
		fatalf("no markdown files found under %s", *root)
	}
	for _, path := range sources {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		use := *widths
		if len(use) == 0 {
			use = existingWidths(path)
		}
		if len(use) == 0 {
			use = []int{40, 60, 80}
		}
		for _, width := range use {
			out, err := render(src, width)
			if err != nil {
				fatalf("render %s width %d: %v", path, width, err)
			}
			golden := goldenPath(path, width)
			if err := os.WriteFile(golden, out, 0o644); err != nil {
				fatalf("write %s: %v", golden, err)
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", golden)
		}
	}
}

// render must stay in step with the golden test in the mdriver package.
func render(src []byte, width int) ([]byte, error) {
	var out bytes.Buffer
	err := mdriver.Render(mdriver.RenderRequest{
		Reader:  bytes.NewReader(src),
		Writer:  &out,
		Width:   width,
		Theme:   mdriver.DefaultTheme(),
		Options: []mdriver.RenderOption{mdriver.WithOSC8(false)},
	})
	return out.Bytes(), err
}

func goldenPath(mdPath string, width int) string {
	return fmt.Sprintf("%s.w%d.golden", strings.TrimSuffix(mdPath, ".md"), width)
}

// existingWidths returns the widths of goldens already present for mdPath.
func existingWidths(mdPath string) []int {
	base := strings.TrimSuffix(mdPath, ".md")
	matches, _ := filepath.Glob(base + ".w*.golden")
	var widths []int
	for _, m := range matches {
		w := strings.TrimSuffix(strings.TrimPrefix(m, base+".w"), ".golden")
		if n, err := strconv.Atoi(w); err == nil && n > 0 {
			widths = append(widths, n)
		}
	}
	sort.Ints(widths)
	return widths
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
