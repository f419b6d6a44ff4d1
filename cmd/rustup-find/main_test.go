package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/rustup-find/rustup-find/cmd/rustup-find/cmd"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"rustup-find": func() {
			if err := cmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},

		// rustup is a fake toolchain manager driven by files under
		// $FAKE_RUSTUP_STATE, so scripts can seed toolchains and
		// components, and inject failures per subcommand.
		"rustup": fakeRustup,
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Keep ~/.rustup and the config lookup inside the temp dir.
			e.Vars = append(e.Vars, "HOME="+e.WorkDir)
			e.Vars = append(e.Vars, "FAKE_RUSTUP_STATE="+filepath.Join(e.WorkDir, "rustup-state"))

			// Serve $WORK over HTTP so manifests written by the
			// `manifest` command are fetchable at the conventional
			// /dist/<date>/channel-rust-<channel>.toml path.
			srv := httptest.NewServer(http.FileServer(http.Dir(e.WorkDir)))
			e.Defer(srv.Close)
			e.Vars = append(e.Vars, "RUSTUP_DIST_SERVER="+srv.URL)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// manifest writes a channel manifest for a date relative to today.
			// Usage: manifest <days-ago> <channel> <target> <comp,comp,...>
			"manifest": cmdManifest,

			// stdout-is-toolchain asserts the last stdout line is the dated
			// toolchain name for a date relative to today.
			// Usage: stdout-is-toolchain <days-ago> <channel> <target>
			"stdout-is-toolchain": cmdStdoutIsToolchain,

			// seed-toolchain marks a toolchain installed in the fake rustup.
			// Usage: seed-toolchain <days-ago|dateless> <channel> <target> [default]
			"seed-toolchain": cmdSeedToolchain,

			// state-has-toolchain asserts that the fake rustup considers a
			// toolchain installed (or not, with !).
			// Usage: [!] state-has-toolchain <days-ago|dateless> <channel> <target>
			"state-has-toolchain": cmdStateHasToolchain,
		},
	})
}

// dayAgo returns the UTC date string for n days before today.
func dayAgo(n int) string {
	return time.Now().UTC().AddDate(0, 0, -n).Format("2006-01-02")
}

// toolchainName builds "<channel>[-<date>]-<target>" where spec is either a
// days-ago number or the literal "dateless".
func toolchainName(ts *testscript.TestScript, spec, channel, target string) string {
	if spec == "dateless" {
		return channel + "-" + target
	}
	n, err := strconv.Atoi(spec)
	if err != nil {
		ts.Fatalf("invalid days-ago value %q", spec)
	}
	return channel + "-" + dayAgo(n) + "-" + target
}

func cmdManifest(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("manifest does not support negation")
	}
	if len(args) != 4 {
		ts.Fatalf("usage: manifest <days-ago> <channel> <target> <comp,comp,...>")
	}

	daysAgo, err := strconv.Atoi(args[0])
	if err != nil {
		ts.Fatalf("invalid days-ago value %q", args[0])
	}
	channel, target := args[1], args[2]
	date := dayAgo(daysAgo)

	var doc strings.Builder
	fmt.Fprintf(&doc, "manifest-version = %q\n", "2")
	fmt.Fprintf(&doc, "date = %q\n", date)
	for _, component := range strings.Split(args[3], ",") {
		fmt.Fprintf(&doc, "\n[pkg.%s]\nversion = %q\n", component, "0.0.0 (fake)")
		fmt.Fprintf(&doc, "\n[pkg.%s.target.%s]\navailable = true\n", component, target)
	}

	dir := ts.MkAbs(filepath.Join("dist", date))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		ts.Fatalf("creating manifest dir: %v", err)
	}
	path := filepath.Join(dir, "channel-rust-"+channel+".toml")
	if err := os.WriteFile(path, []byte(doc.String()), 0o644); err != nil {
		ts.Fatalf("writing manifest: %v", err)
	}
}

func cmdStdoutIsToolchain(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 3 {
		ts.Fatalf("usage: stdout-is-toolchain <days-ago|dateless> <channel> <target>")
	}
	want := toolchainName(ts, args[0], args[1], args[2])

	lines := strings.Split(strings.TrimSpace(ts.ReadFile("stdout")), "\n")
	got := strings.TrimSpace(lines[len(lines)-1])

	if neg {
		if got == want {
			ts.Fatalf("stdout ends with %q (expected not to)", want)
		}
		return
	}
	if got != want {
		ts.Fatalf("stdout ends with %q, want %q", got, want)
	}
}

func cmdSeedToolchain(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("seed-toolchain does not support negation")
	}
	if len(args) < 3 || len(args) > 4 {
		ts.Fatalf("usage: seed-toolchain <days-ago|dateless> <channel> <target> [default]")
	}

	line := toolchainName(ts, args[0], args[1], args[2])
	if len(args) == 4 {
		if args[3] != "default" {
			ts.Fatalf("unknown seed-toolchain modifier %q", args[3])
		}
		line += " (default)"
	}

	stateDir := ts.Getenv("FAKE_RUSTUP_STATE")
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		ts.Fatalf("creating state dir: %v", err)
	}
	f, err := os.OpenFile(filepath.Join(stateDir, "toolchains"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		ts.Fatalf("opening toolchains state: %v", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := fmt.Fprintln(f, line); err != nil {
		ts.Fatalf("writing toolchains state: %v", err)
	}
}

func cmdStateHasToolchain(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 3 {
		ts.Fatalf("usage: state-has-toolchain <days-ago|dateless> <channel> <target>")
	}
	name := toolchainName(ts, args[0], args[1], args[2])

	found := false
	for _, line := range readStateToolchains(ts.Getenv("FAKE_RUSTUP_STATE")) {
		if strings.TrimSuffix(line, " (default)") == name {
			found = true
			break
		}
	}

	if neg {
		if found {
			ts.Fatalf("toolchain %s is installed (expected not to be)", name)
		}
		return
	}
	if !found {
		ts.Fatalf("toolchain %s is not installed", name)
	}
}

func readStateToolchains(stateDir string) []string {
	data, err := os.ReadFile(filepath.Join(stateDir, "toolchains"))
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// fakeRustup emulates the rustup subcommands the tool drives. State lives in
// plain files under $FAKE_RUSTUP_STATE; a file named fail-<verb> makes that
// verb fail with the file's content on stderr.
func fakeRustup() {
	stateDir := os.Getenv("FAKE_RUSTUP_STATE")
	if stateDir == "" {
		fmt.Fprintln(os.Stderr, "FAKE_RUSTUP_STATE not set")
		os.Exit(2)
	}

	args := os.Args[1:]
	fail := func(verb string) {
		if msg, err := os.ReadFile(filepath.Join(stateDir, "fail-"+verb)); err == nil {
			fmt.Fprintf(os.Stderr, "error: %s", msg)
			os.Exit(1)
		}
	}

	switch {
	case len(args) == 2 && args[0] == "toolchain" && args[1] == "list":
		lines := readStateToolchains(stateDir)
		if len(lines) == 0 {
			fmt.Println("no installed toolchains")
			return
		}
		for _, line := range lines {
			fmt.Println(line)
		}

	case len(args) == 3 && args[0] == "toolchain" && args[1] == "install":
		fail("install")
		appendStateToolchain(stateDir, args[2])

	case len(args) == 3 && args[0] == "toolchain" && args[1] == "uninstall":
		fail("uninstall")
		removeStateToolchain(stateDir, args[2])

	case len(args) == 4 && args[0] == "toolchain" && args[1] == "link":
		fail("link")
		appendStateToolchain(stateDir, args[2])

	case len(args) == 4 && args[0] == "component" && args[1] == "list" && args[2] == "--toolchain":
		data, err := os.ReadFile(filepath.Join(stateDir, "components"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: no components state for %s\n", args[3])
			os.Exit(1)
		}
		fmt.Print(string(data))

	default:
		fmt.Fprintf(os.Stderr, "fake rustup: unsupported arguments %v\n", args)
		os.Exit(2)
	}
}

func appendStateToolchain(stateDir, name string) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	lines := append(readStateToolchains(stateDir), name)
	writeStateToolchains(stateDir, lines)
}

func removeStateToolchain(stateDir, name string) {
	var kept []string
	found := false
	for _, line := range readStateToolchains(stateDir) {
		if strings.TrimSuffix(line, " (default)") == name {
			found = true
			continue
		}
		kept = append(kept, line)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "error: no toolchain installed for '%s'\n", name)
		os.Exit(1)
	}
	writeStateToolchains(stateDir, kept)
}

func writeStateToolchains(stateDir string, lines []string) {
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(filepath.Join(stateDir, "toolchains"), []byte(content), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
