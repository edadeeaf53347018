package rundocs

// View tracks the single open run and its document set.
//
// A run moves through two slots: Open marks it pending while its fetch is in
// flight, and a successful Resolve makes it the open run. Pushes that arrive
// while a fetch is pending are buffered and folded in at resolve time so
// nothing that arrives during the fetch is lost. View is not safe for
// concurrent use; it is owned by the UI update loop.
//
// A document belongs to a run when its uid or run_start is the run uid, or
// when it references (as descriptor or resource) a document already in the
// run's set.
type View struct {
	open    string
	docs    []Document
	seen    map[string]struct{}
	members map[string]struct{}

	pending string
	buffer  []Document
}

func NewView() *View {
	return &View{}
}

// Open starts loading run uid. The currently displayed run stays on screen
// until the fetch resolves.
func (v *View) Open(uid string) {
	v.pending = uid
	v.buffer = nil
}

// ResolveResult describes what Resolve did with a fetch result.
type ResolveResult int

const (
	Applied ResolveResult = iota
	Stale
	Failed
)

func (r ResolveResult) String() string {
	switch r {
	case Applied:
		return "applied"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Resolve applies the fetch result for uid. A result for anything but the
// pending run is stale and ignored. A failed fetch leaves the display as it
// was and clears the pending slot.
func (v *View) Resolve(uid string, docs []Document, err error) ResolveResult {
	if uid == "" || uid != v.pending {
		return Stale
	}
	buffered := v.buffer
	v.pending = ""
	v.buffer = nil
	if err != nil {
		return Failed
	}

	v.open = uid
	v.docs = make([]Document, 0, len(docs)+len(buffered))
	v.seen = make(map[string]struct{}, len(docs)+len(buffered))
	v.members = map[string]struct{}{uid: {}}
	// The fetched set is shown exactly as returned, duplicates included.
	for _, d := range docs {
		v.seen[d.Fingerprint()] = struct{}{}
		if id := d.UID(); id != "" {
			v.members[id] = struct{}{}
		}
		v.docs = append(v.docs, d)
	}
	for _, d := range buffered {
		if v.belongs(d) {
			v.add(d)
		}
	}
	return Applied
}

// Push offers a live document. It returns true when the open run's document
// set grew.
func (v *View) Push(doc Document) bool {
	if doc == nil {
		return false
	}
	if v.pending != "" {
		v.buffer = append(v.buffer, doc)
	}
	if v.open == "" || !v.belongs(doc) {
		return false
	}
	return v.add(doc)
}

func (v *View) belongs(doc Document) bool {
	if doc.BelongsTo(v.open) {
		return true
	}
	for _, ref := range doc.Parents() {
		if _, ok := v.members[ref]; ok {
			return true
		}
	}
	return false
}

func (v *View) add(doc Document) bool {
	fp := doc.Fingerprint()
	if _, dup := v.seen[fp]; dup {
		return false
	}
	v.seen[fp] = struct{}{}
	if uid := doc.UID(); uid != "" {
		v.members[uid] = struct{}{}
	}
	v.docs = append(v.docs, doc)
	return true
}

// Close drops the open run and any pending load.
func (v *View) Close() {
	v.open = ""
	v.docs = nil
	v.seen = nil
	v.members = nil
	v.pending = ""
	v.buffer = nil
}

// OpenUID is the run currently displayed, or "".
func (v *View) OpenUID() string { return v.open }

// Pending is the run whose fetch is in flight, or "".
func (v *View) Pending() string { return v.pending }

// Docs returns the open run's documents in display order. The slice must not
// be modified.
func (v *View) Docs() []Document { return v.docs }

func (v *View) Len() int { return len(v.docs) }
