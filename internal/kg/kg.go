package kg

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gcpdev/xshacl/internal/graph"
	"github.com/gcpdev/xshacl/internal/model"
	"github.com/gcpdev/xshacl/internal/signature"
)

//go:embed ontology.ttl
var defaultOntology []byte

// DefaultStorePath is where the instance document lives unless
// overridden with WithStorePath.
const DefaultStorePath = "data/validation_kg.ttl"

// KG is a violation explanation cache backed by a schema + instance
// triple graph. Construct with Open; a KG is safe for concurrent use by
// multiple goroutines. There is no process-wide singleton: callers own
// their instances, which keeps independent stores (one per test, say)
// cheap.
type KG struct {
	mu        sync.RWMutex
	tbox      *graph.Graph // ontology, read-only after Open
	abox      *graph.Graph // accumulated instance facts
	storePath string
	recorder  Recorder
}

// Option configures a KG at Open time.
type Option func(*options)

type options struct {
	ontologyPath string
	storePath    string
	recorder     Recorder
}

// WithOntologyPath loads the ontology document from path instead of the
// embedded default.
func WithOntologyPath(path string) Option {
	return func(o *options) { o.ontologyPath = path }
}

// WithStorePath sets the instance document location.
func WithStorePath(path string) Option {
	return func(o *options) { o.storePath = path }
}

// WithRecorder attaches a cache event recorder. Recording is
// best-effort: a failing recorder is logged and never fails the cache
// operation itself.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// Open loads the ontology (fatal if missing or unparseable) and the
// instance document if one exists. An absent instance document is not an
// error; the store starts empty. A present but corrupt instance document
// is fatal and surfaced rather than silently discarded.
func Open(opts ...Option) (*KG, error) {
	o := options{storePath: DefaultStorePath}
	for _, opt := range opts {
		opt(&o)
	}

	ontology := defaultOntology
	ontologySrc := "embedded"
	if o.ontologyPath != "" {
		data, err := os.ReadFile(o.ontologyPath)
		if err != nil {
			return nil, &PersistenceError{Op: "load ontology", Path: o.ontologyPath, Err: err}
		}
		ontology = data
		ontologySrc = o.ontologyPath
	}
	tbox, err := graph.ParseTurtle(ontology)
	if err != nil {
		return nil, &PersistenceError{Op: "load ontology", Path: ontologySrc, Err: err}
	}

	abox := graph.New()
	data, err := os.ReadFile(o.storePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// no instance data yet
	case err != nil:
		return nil, &PersistenceError{Op: "load instances", Path: o.storePath, Err: err}
	default:
		abox, err = graph.ParseTurtle(data)
		if err != nil {
			return nil, &PersistenceError{Op: "load instances", Path: o.storePath, Err: err}
		}
	}

	return &KG{
		tbox:      tbox,
		abox:      abox,
		storePath: o.storePath,
		recorder:  o.recorder,
	}, nil
}

// Has reports whether an explanation is cached for sig. No side effects.
// Returns *signature.ValidationError if sig cannot be canonicalized.
func (k *KG) Has(sig signature.Signature) (bool, error) {
	token, err := signature.Token(sig)
	if err != nil {
		return false, err
	}
	k.mu.RLock()
	found := k.hasToken(token)
	k.mu.RUnlock()

	if found {
		k.record(Event{Op: OpHas, Token: token, Outcome: OutcomeHit})
	} else {
		k.record(Event{Op: OpHas, Token: token, Outcome: OutcomeMiss})
	}
	return found, nil
}

// Get retrieves the cached explanation for sig, reconstructing the
// nested violation, justification tree, and retrieved context from their
// stored encodings. Returns *NotFoundError when the signature is absent
// or has no linked explanation record, and *EncodingError when a stored
// nested field no longer decodes.
func (k *KG) Get(sig signature.Signature) (*model.ExplanationOutput, error) {
	token, err := signature.Token(sig)
	if err != nil {
		return nil, err
	}

	k.mu.RLock()
	out, err := k.getToken(token)
	k.mu.RUnlock()

	if err != nil {
		if IsNotFound(err) {
			k.record(Event{Op: OpGet, Token: token, Outcome: OutcomeMiss})
		}
		return nil, err
	}
	k.record(Event{Op: OpGet, Token: token, Outcome: OutcomeHit})
	return out, nil
}

func (k *KG) hasToken(token string) bool {
	return k.abox.Has(sigIRI(token), graph.RDFType, ClassViolationSignature)
}

func (k *KG) getToken(token string) (*model.ExplanationOutput, error) {
	sigNode := sigIRI(token)
	if !k.abox.Has(sigNode, graph.RDFType, ClassViolationSignature) {
		return nil, &NotFoundError{Token: token, Reason: "not cached"}
	}
	explTerm, ok := k.abox.Value(sigNode, PredHasExplanation)
	if !ok {
		return nil, &NotFoundError{Token: token, Reason: "signature record has no linked explanation"}
	}
	explNode, ok := explTerm.(graph.IRI)
	if !ok {
		return nil, &NotFoundError{Token: token, Reason: "explanation link is not a record reference"}
	}
	return decodeExplanation(k.abox, explNode, token)
}

// Put caches explanation under sig's canonical token and durably
// persists the instance graph before returning. If the signature is
// already cached, Put is a no-op: the first stored explanation is
// preserved permanently and later calls cannot overwrite it.
func (k *KG) Put(sig signature.Signature, explanation *model.ExplanationOutput) error {
	token, err := signature.Token(sig)
	if err != nil {
		return err
	}
	if explanation == nil {
		return &signature.ValidationError{Field: "explanation", Err: errors.New("nil explanation")}
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.hasToken(token) {
		k.record(Event{Op: OpPut, Token: token, Outcome: OutcomeDuplicate})
		return nil
	}

	added, err := encodeEntry(k.abox, token, sig, explanation)
	if err != nil {
		return err
	}
	if err := k.persistLocked(); err != nil {
		// keep memory and disk consistent: withdraw the entry we failed to persist
		for _, t := range added {
			k.abox.Remove(t.Subject, t.Predicate, t.Object)
		}
		return err
	}
	k.record(Event{Op: OpPut, Token: token, Outcome: OutcomeInserted})
	return nil
}

// Clear discards all instance records and persists the now-empty
// instance document. Ontology definitions are retained.
func (k *KG) Clear() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	previous := k.abox
	k.abox = graph.New()
	if err := k.persistLocked(); err != nil {
		k.abox = previous
		return err
	}
	k.record(Event{Op: OpClear, Outcome: OutcomeCleared})
	return nil
}

// Size returns the number of stored instance facts (triples, not
// records). A coarse capacity signal: an empty store reports 0.
func (k *KG) Size() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.abox.Len()
}

// Signatures returns the canonical tokens of all cached signatures in
// sorted order.
func (k *KG) Signatures() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	subjects := k.abox.SubjectsWithType(graph.RDFType, ClassViolationSignature)
	tokens := make([]string, 0, len(subjects))
	for _, s := range subjects {
		tokens = append(tokens, string(s)[len(Namespace):])
	}
	return tokens
}

// StorePath returns the instance document location.
func (k *KG) StorePath() string { return k.storePath }

// persistLocked serializes the instance graph to the store path. The
// ontology is never merged in; the persisted document holds instance
// facts only, and the TBox stays authoritative in its own document.
//
// The document is written to a temp file in the same directory and
// renamed into place so readers never observe a partial write.
func (k *KG) persistLocked() error {
	data := graph.EncodeTurtle(k.abox, prefixes)

	dir := filepath.Dir(k.storePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Op: "persist instances", Path: k.storePath, Err: err}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(k.storePath)+".tmp-*")
	if err != nil {
		return &PersistenceError{Op: "persist instances", Path: k.storePath, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "persist instances", Path: k.storePath, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "persist instances", Path: k.storePath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "persist instances", Path: k.storePath, Err: err}
	}
	if err := os.Rename(tmpName, k.storePath); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "persist instances", Path: k.storePath, Err: err}
	}
	return nil
}

func (k *KG) record(ev Event) {
	if k.recorder == nil {
		return
	}
	if err := k.recorder.Record(ev); err != nil {
		slog.Warn("cache event not recorded", "op", ev.Op, "token", ev.Token, "err", err)
	}
}

func sigIRI(token string) graph.IRI {
	return graph.IRI(Namespace + token)
}

func explIRI(token string) graph.IRI {
	return graph.IRI(fmt.Sprintf("%s%s%s", Namespace, token, explanationSuffix))
}
