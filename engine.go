// Package yalp contains an interactive session for building an SLR(1) parse
// table from a grammar and driving it over token input, structured as a
// numbered menu the way main_app.py's REPL is.
package yalp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/corvidlabs/yalp/internal/config"
	"github.com/corvidlabs/yalp/internal/dot"
	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/ictiobus/parse"
	"github.com/corvidlabs/yalp/internal/ictiobus/ptree"
	yalpfmt "github.com/corvidlabs/yalp/internal/ictiobus/yalp"
	"github.com/corvidlabs/yalp/internal/input"
	"github.com/corvidlabs/yalp/internal/tablecache"
	"github.com/corvidlabs/yalp/internal/tokenfile"
)

// configFile is the optional per-directory config checked for at session
// start (spec EXPANSION: AMBIENT STACK).
const configFile = "yalpc.toml"

// cacheDir holds cached built tables, keyed by a hash of their grammar text.
const cacheDir = ".yalpc-cache"

const menuText = `
Choose an option:
  1) Load grammar (.yalp) and build SLR(1) parse table
  2) Print ACTION and GOTO tables
  3) Parse a token file and print the parse tree(s)
  4) Generate a DOT file for the last parse tree
  5) Exit
`

// Session holds everything a menu-driven run of this tool accumulates: the
// grammar and table built from the most recently loaded .yalp file, and the
// parse trees produced by the most recent token-file run.
type Session struct {
	id uuid.UUID

	gram   grammar.Grammar
	table  *parse.Table
	driver *parse.Driver

	lastTrees []*ptree.Node

	cfg config.Config

	in          CommandReader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// CommandReader is the minimal surface Session needs from an input source:
// one line at a time, with Close releasing any readline resources.
type CommandReader interface {
	ReadCommand() (string, error)
	AllowBlank(bool)
	Close() error
}

// New creates a Session ready to run against the given input and output
// streams. A nil inputStream defaults to stdin, a nil outputStream to
// stdout; when both are the real stdin/stdout and forceDirectInput is
// false, input is read through GNU readline, matching the teacher's
// interactive-vs-piped distinction.
func New(inputStream io.Reader, outputStream io.Writer, forceDirectInput bool) (*Session, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", configFile, err)
	}

	s := &Session{
		id:          id,
		cfg:         cfg,
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		s.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		s.in = input.NewDirectReader(inputStream)
	}

	return s, nil
}

// Close releases any readline resources held by the session's input reader.
func (s *Session) Close() error {
	if s.running {
		return fmt.Errorf("cannot close a running session")
	}
	return s.in.Close()
}

func (s *Session) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
	s.out.Flush()
}

// logf writes a trace-style line tagged with this session's ID, so output
// from multiple yalpc runs piped into the same log file can be told apart.
func (s *Session) logf(format string, a ...interface{}) {
	s.printf("[%s] %s\n", s.id, fmt.Sprintf(format, a...))
}

func (s *Session) prompt(p string) (string, error) {
	s.in.AllowBlank(true)
	if icr, ok := s.in.(*input.InteractiveCommandReader); ok {
		old := icr.GetPrompt()
		icr.SetPrompt(p)
		defer icr.SetPrompt(old)
	} else if p != "" {
		s.printf("%s", p)
	}
	return s.in.ReadCommand()
}

// RunUntilQuit prints the menu and dispatches on the chosen option until
// option 5 is selected or the input stream is exhausted.
func (s *Session) RunUntilQuit() error {
	s.running = true
	defer func() { s.running = false }()

	for s.running {
		s.printf("%s", menuText)
		choice, err := s.prompt("Option> ")
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read menu choice: %w", err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			s.loadGrammar()
		case "2":
			s.printTables()
		case "3":
			s.parseTokenFile()
		case "4":
			s.writeDOT()
		case "5":
			s.printf("Goodbye\n")
			s.running = false
		default:
			s.printf("Invalid option.\n")
		}
	}

	return nil
}

func (s *Session) loadGrammar() {
	path, err := s.prompt(promptWithDefault("Path to .yalp grammar file: ", s.cfg.GrammarFile))
	if err != nil {
		s.printf("[error reading path] %v\n", err)
		return
	}
	path = resolvePrompted(path, s.cfg.GrammarFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		s.printf("[error] %v\n", err)
		return
	}

	policy := parse.ResolveAndWarn
	if s.cfg.FailOnConflict {
		policy = parse.FailOnConflict
	}

	key := tablecache.KeyFor(raw)
	g, err := yalpfmt.Parse(strings.NewReader(string(raw)))
	if err != nil {
		s.printf("[grammar error] %v\n", err)
		return
	}

	table, fromCache, err := tablecache.Load(cacheDir, key)
	if err != nil {
		s.logf("table cache lookup failed: %v", err)
	}

	var conflicts []parse.Conflict
	if !fromCache {
		table, conflicts, err = parse.BuildSLRTable(g, policy)
		if err != nil {
			s.printf("[table error] %v\n", err)
			return
		}
		if err := tablecache.Store(cacheDir, key, g.Augmented(), table); err != nil {
			s.logf("table cache store failed: %v", err)
		}
	}
	for _, c := range conflicts {
		s.printf("[conflict] %s\n", c)
	}

	s.gram = g
	s.table = table
	s.driver = parse.NewDriver(table, g)

	if fromCache {
		s.logf("loaded cached table for %s (%d states)", path, len(table.States()))
	} else {
		s.logf("built table for %s (%d states)", path, len(table.States()))
	}
}

// promptWithDefault appends "[default]" to base when a config default is
// set, so the user knows pressing enter will use it.
func promptWithDefault(base, def string) string {
	if def == "" {
		return base
	}
	return fmt.Sprintf("%s[%s] ", base, def)
}

// resolvePrompted returns def when the user entered a blank line and def is
// set, otherwise the trimmed input.
func resolvePrompted(input, def string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" && def != "" {
		return def
	}
	return trimmed
}

func (s *Session) printTables() {
	if s.table == nil {
		s.printf("Build a grammar and table first (option 1).\n")
		return
	}
	s.printf("\n%s\n", s.table.String())
}

func (s *Session) parseTokenFile() {
	if s.driver == nil {
		s.printf("Build a grammar and table first (option 1).\n")
		return
	}
	path, err := s.prompt(promptWithDefault("Path to token file (one KIND LEXEME per line): ", s.cfg.TokenFile))
	if err != nil {
		s.printf("[error reading path] %v\n", err)
		return
	}
	path = resolvePrompted(path, s.cfg.TokenFile)

	f, err := os.Open(path)
	if err != nil {
		s.printf("[error] %v\n", err)
		return
	}
	defer f.Close()

	units, err := tokenfile.ReadUnits(f)
	if err != nil {
		s.printf("[token file error] %v\n", err)
		return
	}

	var trees []*ptree.Node
	for i, unit := range units {
		tree, err := s.driver.Parse(unit)
		if err != nil {
			s.printf("[parsing error] unit #%d: %v\n", i+1, err)
			continue
		}
		trees = append(trees, tree)
		s.printf("Parse succeeded for unit #%d. Root: %s\n", i+1, tree)
	}

	if len(trees) > 0 {
		s.lastTrees = trees
	}
}

func (s *Session) writeDOT() {
	if len(s.lastTrees) == 0 && s.table == nil {
		s.printf("No parse tree or table available. Run option 1 or 3 first.\n")
		return
	}

	kind, err := s.prompt("Write (t)ree or (a)ction table? [t]: ")
	if err != nil {
		s.printf("[error reading choice] %v\n", err)
		return
	}
	kind = resolvePrompted(kind, "t")

	defaultOut := "parse_tree.dot"
	if kind == "a" {
		defaultOut = "action_table.dot"
	}

	out, err := s.prompt(fmt.Sprintf("Output DOT file path (e.g. %s): ", defaultOut))
	if err != nil {
		s.printf("[error reading path] %v\n", err)
		return
	}
	out = resolvePrompted(out, defaultOut)

	f, err := os.Create(out)
	if err != nil {
		s.printf("[error creating file] %v\n", err)
		return
	}
	defer f.Close()

	if kind == "a" {
		if s.table == nil {
			s.printf("Build a grammar and table first (option 1).\n")
			return
		}
		err = dot.WriteActionTable(f, s.table, s.gram.Terminals())
	} else {
		if len(s.lastTrees) == 0 {
			s.printf("No parse tree available. Run option 3 first.\n")
			return
		}
		err = dot.WriteTree(f, s.lastTrees[len(s.lastTrees)-1])
	}
	if err != nil {
		s.printf("[error writing DOT] %v\n", err)
		return
	}
	s.printf("DOT file written to %s.\n", out)
}
