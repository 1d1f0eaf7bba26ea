package registry

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aradsms/recipient_intake/internal/recipient_service/domain"
	"github.com/aradsms/recipient_intake/internal/recipient_service/extractor"
)

// Source labels the ingestion path of an add operation.
type Source string

const (
	SourceFreeText Source = "free_text"
	SourcePaste    Source = "paste"
	SourceExternal Source = "external"
	SourceImport   Source = "import"
	SourcePrefill  Source = "prefill"
)

// AddResult is the feedback of a bulk add: what was added, which numbers were
// already present, which tokens failed the shape filter, and how many external
// records were skipped.
type AddResult struct {
	Added      []domain.PhoneEntry
	Duplicates []string
	Rejected   []string
	Skipped    int
}

// Registry is the ordered, duplicate-free set of phone entries of one
// composition session. It has a single owner and is not safe for concurrent
// mutation.
type Registry struct {
	classifier domain.Classifier
	validate   *validator.Validate
	newID      func() uuid.UUID
	logger     *slog.Logger

	entries []domain.PhoneEntry
}

// Options tunes a Registry. Zero values fall back to defaults.
type Options struct {
	IDGenerator func() uuid.UUID    // Defaults to uuid.New
	Validator   *validator.Validate // Shared with the host when set
	// Prefill is an external record feed (e.g. contacts picked on another
	// page) ingested when the registry is created.
	Prefill []domain.ExternalRecord
}

// New creates an empty Registry.
func New(classifier domain.Classifier, logger *slog.Logger) *Registry {
	return NewWithOptions(classifier, logger, Options{})
}

// NewWithOptions creates a Registry, then applies the prefill feed if any.
func NewWithOptions(classifier domain.Classifier, logger *slog.Logger, opts Options) *Registry {
	r := &Registry{
		classifier: classifier,
		validate:   opts.Validator,
		newID:      opts.IDGenerator,
		logger:     logger.With("component", "registry"),
	}
	if r.newID == nil {
		r.newID = uuid.New
	}
	if r.validate == nil {
		r.validate = validator.New()
	}
	if len(opts.Prefill) > 0 {
		r.addExternal(SourcePrefill, opts.Prefill)
	}
	return r
}

// Entries returns a copy of the current entries in order.
func (r *Registry) Entries() []domain.PhoneEntry {
	out := make([]domain.PhoneEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Get returns the entry with the given ID.
func (r *Registry) Get(id uuid.UUID) (domain.PhoneEntry, bool) {
	if idx := r.indexOf(id); idx >= 0 {
		return r.entries[idx], true
	}
	return domain.PhoneEntry{}, false
}

// Contains reports whether an entry holds exactly phoneNumber.
func (r *Registry) Contains(phoneNumber string) bool {
	for _, e := range r.entries {
		if e.PhoneNumber == phoneNumber {
			return true
		}
	}
	return false
}

// ValidCount is derived from the entries on every call.
func (r *Registry) ValidCount() int {
	n := 0
	for _, e := range r.entries {
		if e.IsValid {
			n++
		}
	}
	return n
}

// InvalidCount is derived from the entries on every call.
func (r *Registry) InvalidCount() int {
	return len(r.entries) - r.ValidCount()
}

// AddFreeText adds every phone number found in text. A single typed number
// goes through the same path as a multi-number paste.
func (r *Registry) AddFreeText(text string) AddResult {
	return r.addScanned(SourceFreeText, extractor.ScanFreeText(text))
}

// AddPaste is AddFreeText with column sniffing for tabular clipboard content.
func (r *Registry) AddPaste(text string) AddResult {
	return r.addScanned(SourcePaste, extractor.ScanPaste(text))
}

// AddFromExternalRecords merges pre-vetted records from another subsystem.
// Records that are already present or malformed are skipped without error.
func (r *Registry) AddFromExternalRecords(records []domain.ExternalRecord) AddResult {
	return r.addExternal(SourceExternal, records)
}

// AddFromImport merges the valid records of a structured import.
func (r *Registry) AddFromImport(result *domain.ImportResult) AddResult {
	if result == nil || result.HasStructuralErrors() {
		return AddResult{}
	}
	records := make([]domain.ExternalRecord, 0, len(result.ValidRecords))
	for _, c := range result.ValidRecords {
		records = append(records, domain.ExternalRecord{PhoneNumber: c.PhoneNumber, Name: c.DisplayName()})
	}
	return r.addExternal(SourceImport, records)
}

func (r *Registry) addScanned(source Source, scan extractor.ScanResult) AddResult {
	result := AddResult{Rejected: scan.Rejected}
	present := r.phoneSet()
	for _, number := range scan.Numbers {
		if _, ok := present[number]; ok {
			result.Duplicates = append(result.Duplicates, number)
			continue
		}
		entry := r.newEntry(number, "")
		r.entries = append(r.entries, entry)
		present[number] = struct{}{}
		result.Added = append(result.Added, entry)
	}
	r.DedupeSweep()
	r.record(source, result)
	return result
}

func (r *Registry) addExternal(source Source, records []domain.ExternalRecord) AddResult {
	var result AddResult
	present := r.phoneSet()
	for _, rec := range records {
		rec.PhoneNumber = strings.TrimSpace(rec.PhoneNumber)
		rec.Name = strings.TrimSpace(rec.Name)
		if err := r.validate.Struct(rec); err != nil {
			r.logger.Debug("Skipping external record", "source", source, "error", err)
			result.Skipped++
			continue
		}
		number := extractor.Normalize(rec.PhoneNumber)
		if !extractor.IsCanonical(number) {
			r.logger.Debug("Skipping external record with non-numeric phone", "source", source, "phone_number", rec.PhoneNumber)
			result.Skipped++
			continue
		}
		if _, ok := present[number]; ok {
			result.Skipped++
			continue
		}
		entry := r.newEntry(number, rec.Name)
		r.entries = append(r.entries, entry)
		present[number] = struct{}{}
		result.Added = append(result.Added, entry)
	}
	r.DedupeSweep()
	r.record(source, result)
	return result
}

// Edit replaces the phone number of the entry with the given ID, keeping its
// ID and name and reclassifying the new value. A rejected edit changes nothing.
func (r *Registry) Edit(id uuid.UUID, rawPhoneNumber string) (domain.PhoneEntry, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return domain.PhoneEntry{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	number, ok := extractor.NormalizeCandidate(rawPhoneNumber)
	if !ok {
		return domain.PhoneEntry{}, fmt.Errorf("%w: %q", domain.ErrInvalidFormat, rawPhoneNumber)
	}
	for i, e := range r.entries {
		if i != idx && e.PhoneNumber == number {
			return domain.PhoneEntry{}, fmt.Errorf("%w: %s", domain.ErrDuplicateEntry, number)
		}
	}

	current := r.entries[idx]
	updated := domain.NewPhoneEntry(current.ID, number, current.Name, r.classifier.Classify(number))
	r.entries[idx] = updated
	r.logger.Debug("Entry edited", "entry_id", id, "old_phone_number", current.PhoneNumber, "phone_number", number)
	return updated, nil
}

// Rename replaces the display label of an entry.
func (r *Registry) Rename(id uuid.UUID, name string) (domain.PhoneEntry, error) {
	idx := r.indexOf(id)
	if idx < 0 {
		return domain.PhoneEntry{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	updated := r.entries[idx]
	updated.Name = strings.TrimSpace(name)
	r.entries[idx] = updated
	return updated, nil
}

// Delete removes the entry with the given ID. Unknown IDs are ignored.
func (r *Registry) Delete(id uuid.UUID) bool {
	idx := r.indexOf(id)
	if idx < 0 {
		return false
	}
	r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	return true
}

// Clear removes every entry.
func (r *Registry) Clear() {
	r.entries = nil
}

// DedupeSweep keeps the first entry of each phone number and drops the rest,
// preserving the order of survivors. It returns the number of entries removed.
func (r *Registry) DedupeSweep() int {
	seen := make(map[string]struct{}, len(r.entries))
	kept := r.entries[:0]
	for _, e := range r.entries {
		if _, dup := seen[e.PhoneNumber]; dup {
			continue
		}
		seen[e.PhoneNumber] = struct{}{}
		kept = append(kept, e)
	}
	removed := len(r.entries) - len(kept)
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = domain.PhoneEntry{}
	}
	r.entries = kept
	if removed > 0 {
		dedupeRemovedCounter.Add(float64(removed))
		r.logger.Warn("Dedupe sweep removed entries", "removed", removed)
	}
	return removed
}

func (r *Registry) newEntry(number, name string) domain.PhoneEntry {
	return domain.NewPhoneEntry(r.newID(), number, name, r.classifier.Classify(number))
}

func (r *Registry) indexOf(id uuid.UUID) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) phoneSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.entries))
	for _, e := range r.entries {
		set[e.PhoneNumber] = struct{}{}
	}
	return set
}

func (r *Registry) record(source Source, result AddResult) {
	label := string(source)
	entriesAddedCounter.WithLabelValues(label).Add(float64(len(result.Added)))
	duplicatesCounter.WithLabelValues(label).Add(float64(len(result.Duplicates)))
	rejectedTokensCounter.WithLabelValues(label).Add(float64(len(result.Rejected)))
	skippedRecordsCounter.WithLabelValues(label).Add(float64(result.Skipped))
	r.logger.Info("Entries ingested", "source", source,
		"added", len(result.Added), "duplicates", len(result.Duplicates),
		"rejected", len(result.Rejected), "skipped", result.Skipped, "total", len(r.entries))
}
