package docs

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fenced block kinds executed by TestCodeBlocks.
//
// A setup block starts a scenario in a fresh folder, run blocks run in it and
// check blocks are assertions: a failing check is reported, the scenario goes on.
const (
	bashSetup = "bash setup"
	bashRun   = "bash run"
	bashCheck = "bash check"
)

var listedTopic = regexp.MustCompile(`(?m)^\*\s+([^:]+):`)

// TestTopics checks that the index lists exactly the topic files.
func TestTopics(t *testing.T) {
	index, err := GetTopic("readme")
	if err != nil {
		t.Fatal(err)
	}
	var listed []string
	for _, m := range listedTopic.FindAllStringSubmatch(index, -1) {
		listed = append(listed, strings.TrimSpace(m[1]))
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("listed topic %q: %v", topic, err)
		}
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	if slices.Contains(all, "readme") {
		t.Errorf("GetAllTopics() = %v, contains the index", all)
	}
	star, err := GetTopic("*")
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		content, _ := GetTopic(topic)
		if !strings.Contains(star, content) {
			t.Errorf("GetTopic(\"*\") misses %q", topic)
		}
	}
	if _, err := GetTopics("readme", "no-such-topic"); err == nil {
		t.Errorf("GetTopics() of an unknown topic succeeded")
	}
}

// TestCodeBlocks runs the scenarios of every topic and of the README against
// a freshly built mvo.
func TestCodeBlocks(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs mvo")
	}
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	bin := buildMvo(t, t.TempDir())
	path := fmt.Sprintf("PATH=%s%c%s", filepath.Dir(bin), os.PathListSeparator, os.Getenv("PATH"))
	// Scenarios never reach the network: no API key, and the csv provider.
	env := append(os.Environ(), path, "EODHD_API_KEY=", "NO_COLOR=1")

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			dir := t.TempDir()
			for _, b := range parseBlocks(t, file) {
				if b.kind == bashSetup {
					dir = t.TempDir()
				}
				b.run(t, dir, env)
			}
		})
	}
}

// buildMvo builds the mvo command in dir and returns the binary path.
func buildMvo(t *testing.T, dir string) string {
	t.Helper()
	output := filepath.Join(dir, "mvo")
	build := exec.Command("go", "build", "-o", output, "../mvo/")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("failed to build mvo: %v\n%s", err, out)
	}
	return output
}

// block is a fenced code block to execute.
type block struct {
	kind   string
	script string
	file   string
	line   int
}

func (b *block) run(t *testing.T, dir string, env []string) {
	t.Helper()
	cmd := exec.Command("bash", "-c", "set -e; "+b.script)
	cmd.Dir = dir
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err == nil {
		return
	}
	if b.kind == bashCheck {
		t.Errorf("%s:%d: check failed: %v\n%s", b.file, b.line, err, out)
		return
	}
	t.Fatalf("%s:%d: %s failed: %v\n%s", b.file, b.line, b.kind, err, out)
}

// parseBlocks returns the executable fenced blocks of a markdown file.
func parseBlocks(t *testing.T, file string) []*block {
	t.Helper()
	src, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	var blocks []*block
	root := goldmark.DefaultParser().Parse(text.NewReader(src))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(src))
		switch kind {
		case bashSetup, bashRun, bashCheck:
		default:
			return ast.WalkContinue, nil
		}
		var script bytes.Buffer
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			script.Write(seg.Value(src))
		}
		blocks = append(blocks, &block{
			kind:   kind,
			script: script.String(),
			file:   file,
			line:   bytes.Count(src[:fcb.Info.Segment.Start], []byte("\n")) + 1,
		})
		return ast.WalkContinue, nil
	})
	return blocks
}
