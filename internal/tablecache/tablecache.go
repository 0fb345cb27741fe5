// Package tablecache persists a built SLR(1) ACTION/GOTO table to disk,
// keyed by a hash of the grammar text it was built from, so a session can
// skip reconstruction when the same grammar is loaded again. Grounded on
// the teacher's use of github.com/dekarrin/rezi to round-trip binary-encoded
// state in the sqlite DAO layer (server/dao/sqlite/sqlite.go: "rezi.EncBinary(g)"
// / "rezi.DecBinary(stateData, g)") and its hand-rolled MarshalBinary/
// UnmarshalBinary codec idiom (internal/tunascript/binary.go's
// encBinaryInt/encBinaryString helpers).
package tablecache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/corvidlabs/yalp/internal/ictiobus/grammar"
	"github.com/corvidlabs/yalp/internal/ictiobus/parse"
)

// KeyFor hashes grammar source text into the cache key used to name the
// cache file for that exact grammar.
func KeyFor(grammarText []byte) string {
	sum := sha256.Sum256(grammarText)
	return hex.EncodeToString(sum[:])
}

func pathFor(dir, key string) string {
	return filepath.Join(dir, key+".yalptab")
}

// Store writes a rezi-encoded snapshot of t (built from gPrime, the
// augmented grammar) to dir, named after key.
func Store(dir, key string, gPrime grammar.Grammar, t *parse.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	snap := toSnapshot(gPrime, t)
	enc := rezi.EncBinary(&snap)

	if err := os.WriteFile(pathFor(dir, key), enc, 0o644); err != nil {
		return fmt.Errorf("write table cache: %w", err)
	}
	return nil
}

// Load reads back a previously Store-d table for key, returning (nil, false,
// nil) on a cache miss.
func Load(dir, key string) (*parse.Table, bool, error) {
	data, err := os.ReadFile(pathFor(dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read table cache: %w", err)
	}

	var snap snapshot
	n, err := rezi.DecBinary(data, &snap)
	if err != nil {
		return nil, false, fmt.Errorf("decode table cache: %w", err)
	}
	if n != len(data) {
		return nil, false, fmt.Errorf("table cache decode consumed %d/%d bytes", n, len(data))
	}

	return fromSnapshot(snap), true, nil
}

// snapshot is the binary-encodable projection of a built Table: the
// augmented grammar's productions (so ProductionIndex round-trips) plus the
// ACTION and GOTO maps.
type snapshot struct {
	start    string
	terms    []string
	nonTerms []string
	prods    []prodEntry
	action   map[string]map[string]actionEntry
	goTo     map[string]map[string]string
}

type prodEntry struct {
	nonTerminal string
	rhs         []string
}

type actionEntry struct {
	typ             int
	productionIndex int
	symbol          string
	state           string
}

func toSnapshot(gPrime grammar.Grammar, t *parse.Table) snapshot {
	snap := snapshot{
		start:    t.Initial(),
		terms:    gPrime.Terminals(),
		nonTerms: gPrime.NonTerminals(),
		action:   map[string]map[string]actionEntry{},
		goTo:     map[string]map[string]string{},
	}

	for i := 0; i < gPrime.NumProductions(); i++ {
		nt, prod, ok := gPrime.ProductionAt(i)
		if !ok {
			continue
		}
		snap.prods = append(snap.prods, prodEntry{nonTerminal: nt, rhs: []string(prod)})
	}

	allSymbols := append(append([]string{}, snap.terms...), "$")
	for _, s := range t.States() {
		row := map[string]actionEntry{}
		for _, sym := range allSymbols {
			act := t.Action(s, sym)
			if act.Type == parse.LRError {
				continue
			}
			row[sym] = actionEntry{
				typ:             int(act.Type),
				productionIndex: act.ProductionIndex,
				symbol:          act.Symbol,
				state:           act.State,
			}
		}
		if len(row) > 0 {
			snap.action[s] = row
		}

		gotoRow := map[string]string{}
		for _, nt := range snap.nonTerms {
			if j, err := t.Goto(s, nt); err == nil {
				gotoRow[nt] = j
			}
		}
		if len(gotoRow) > 0 {
			snap.goTo[s] = gotoRow
		}
	}

	return snap
}

func fromSnapshot(snap snapshot) *parse.Table {
	prods := make([]grammar.Production, len(snap.prods))
	for i, p := range snap.prods {
		prods[i] = grammar.Production(p.rhs)
	}

	actions := make(map[string]map[string]parse.LRAction, len(snap.action))
	for state, row := range snap.action {
		actRow := make(map[string]parse.LRAction, len(row))
		for sym, e := range row {
			act := parse.LRAction{
				Type:            parse.LRActionType(e.typ),
				ProductionIndex: e.productionIndex,
				Symbol:          e.symbol,
				State:           e.state,
			}
			if act.Type == parse.LRReduce && e.productionIndex >= 0 && e.productionIndex < len(prods) {
				act.Production = prods[e.productionIndex]
			}
			actRow[sym] = act
		}
		actions[state] = actRow
	}

	return parse.NewTableFromSnapshot(snap.start, snap.terms, snap.nonTerms, actions, snap.goTo)
}

// --- binary codec, grounded on internal/tunascript/binary.go's hand-rolled
// int/string/bool encoders ---

func encInt(i int) []byte {
	enc := make([]byte, 8)
	enc = binary.AppendVarint(enc[:0], int64(i))
	prefixed := make([]byte, 8)
	binary.BigEndian.PutUint64(prefixed, uint64(len(enc)))
	return append(prefixed, enc...)
}

func decInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("tablecache: unexpected end of data decoding int length")
	}
	n := int(binary.BigEndian.Uint64(data[:8]))
	data = data[8:]
	if len(data) < n {
		return 0, 0, fmt.Errorf("tablecache: unexpected end of data decoding int")
	}
	val, read := binary.Varint(data[:n])
	if read <= 0 {
		return 0, 0, fmt.Errorf("tablecache: malformed varint")
	}
	return int(val), 8 + n, nil
}

func encString(s string) []byte {
	b := []byte(s)
	return append(encInt(len(b)), b...)
}

func decString(data []byte) (string, int, error) {
	n, read, err := decInt(data)
	if err != nil {
		return "", 0, err
	}
	data = data[read:]
	if len(data) < n {
		return "", 0, fmt.Errorf("tablecache: unexpected end of data decoding string")
	}
	return string(data[:n]), read + n, nil
}

func encStrings(ss []string) []byte {
	enc := encInt(len(ss))
	for _, s := range ss {
		enc = append(enc, encString(s)...)
	}
	return enc
}

func decStrings(data []byte) ([]string, int, error) {
	count, total, err := decInt(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[total:]
	out := make([]string, count)
	for i := 0; i < count; i++ {
		s, read, err := decString(data)
		if err != nil {
			return nil, 0, err
		}
		out[i] = s
		data = data[read:]
		total += read
	}
	return out, total, nil
}

func (p prodEntry) marshal() []byte {
	return append(encString(p.nonTerminal), encStrings(p.rhs)...)
}

func unmarshalProdEntry(data []byte) (prodEntry, int, error) {
	nt, read, err := decString(data)
	if err != nil {
		return prodEntry{}, 0, err
	}
	total := read
	rhs, read, err := decStrings(data[total:])
	if err != nil {
		return prodEntry{}, 0, err
	}
	total += read
	return prodEntry{nonTerminal: nt, rhs: rhs}, total, nil
}

func (a actionEntry) marshal() []byte {
	enc := encInt(a.typ)
	enc = append(enc, encInt(a.productionIndex)...)
	enc = append(enc, encString(a.symbol)...)
	enc = append(enc, encString(a.state)...)
	return enc
}

func unmarshalActionEntry(data []byte) (actionEntry, int, error) {
	var a actionEntry
	total := 0

	typ, read, err := decInt(data[total:])
	if err != nil {
		return a, 0, err
	}
	a.typ = typ
	total += read

	idx, read, err := decInt(data[total:])
	if err != nil {
		return a, 0, err
	}
	a.productionIndex = idx
	total += read

	sym, read, err := decString(data[total:])
	if err != nil {
		return a, 0, err
	}
	a.symbol = sym
	total += read

	state, read, err := decString(data[total:])
	if err != nil {
		return a, 0, err
	}
	a.state = state
	total += read

	return a, total, nil
}

func (snap *snapshot) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, encString(snap.start)...)
	data = append(data, encStrings(snap.terms)...)
	data = append(data, encStrings(snap.nonTerms)...)

	data = append(data, encInt(len(snap.prods))...)
	for _, p := range snap.prods {
		data = append(data, p.marshal()...)
	}

	data = append(data, encInt(len(snap.action))...)
	for state, row := range snap.action {
		data = append(data, encString(state)...)
		data = append(data, encInt(len(row))...)
		for sym, e := range row {
			data = append(data, encString(sym)...)
			data = append(data, e.marshal()...)
		}
	}

	data = append(data, encInt(len(snap.goTo))...)
	for state, row := range snap.goTo {
		data = append(data, encString(state)...)
		data = append(data, encInt(len(row))...)
		for nt, target := range row {
			data = append(data, encString(nt)...)
			data = append(data, encString(target)...)
		}
	}

	return data, nil
}

func (snap *snapshot) UnmarshalBinary(data []byte) error {
	var total int

	start, read, err := decString(data[total:])
	if err != nil {
		return err
	}
	snap.start = start
	total += read

	terms, read, err := decStrings(data[total:])
	if err != nil {
		return err
	}
	snap.terms = terms
	total += read

	nonTerms, read, err := decStrings(data[total:])
	if err != nil {
		return err
	}
	snap.nonTerms = nonTerms
	total += read

	prodCount, read, err := decInt(data[total:])
	if err != nil {
		return err
	}
	total += read
	snap.prods = make([]prodEntry, prodCount)
	for i := 0; i < prodCount; i++ {
		p, read, err := unmarshalProdEntry(data[total:])
		if err != nil {
			return err
		}
		snap.prods[i] = p
		total += read
	}

	actionStates, read, err := decInt(data[total:])
	if err != nil {
		return err
	}
	total += read
	snap.action = make(map[string]map[string]actionEntry, actionStates)
	for i := 0; i < actionStates; i++ {
		state, read, err := decString(data[total:])
		if err != nil {
			return err
		}
		total += read

		rowCount, read, err := decInt(data[total:])
		if err != nil {
			return err
		}
		total += read

		row := make(map[string]actionEntry, rowCount)
		for j := 0; j < rowCount; j++ {
			sym, read, err := decString(data[total:])
			if err != nil {
				return err
			}
			total += read

			e, read, err := unmarshalActionEntry(data[total:])
			if err != nil {
				return err
			}
			total += read

			row[sym] = e
		}
		snap.action[state] = row
	}

	gotoStates, read, err := decInt(data[total:])
	if err != nil {
		return err
	}
	total += read
	snap.goTo = make(map[string]map[string]string, gotoStates)
	for i := 0; i < gotoStates; i++ {
		state, read, err := decString(data[total:])
		if err != nil {
			return err
		}
		total += read

		rowCount, read, err := decInt(data[total:])
		if err != nil {
			return err
		}
		total += read

		row := make(map[string]string, rowCount)
		for j := 0; j < rowCount; j++ {
			nt, read, err := decString(data[total:])
			if err != nil {
				return err
			}
			total += read

			target, read, err := decString(data[total:])
			if err != nil {
				return err
			}
			total += read

			row[nt] = target
		}
		snap.goTo[state] = row
	}

	return nil
}
