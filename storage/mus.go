package storage

import (
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/jobmatch/core"
)

// MUS serializers for stored records. Timestamps are encoded as Unix
// microseconds with 0 reserved for the zero time.
var (
	IDMUS         = idMUS{}
	JobMUS        = jobMUS{}
	SessionMUS    = sessionMUS{}
	DocumentMUS   = documentMUS{}
	CheckpointMUS = checkpointMUS{}
)

type idMUS struct{}

func (idMUS) Size(v core.ID) int { return varint.Uint64.Size(uint64(v)) }

func (idMUS) Marshal(v core.ID, bs []byte) int { return varint.Uint64.Marshal(uint64(v), bs) }

func (idMUS) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

type jobMUS struct{}

func (jobMUS) Size(v core.Job) int {
	return ord.String.Size(v.Title) +
		ord.String.Size(v.Company) +
		ord.String.Size(string(v.WorkStyle)) +
		ord.String.Size(string(v.WorkType)) +
		ord.String.Size(v.Location) +
		ord.String.Size(v.Salary) +
		ord.String.Size(v.Description)
}

func (jobMUS) Marshal(v core.Job, bs []byte) int {
	w := writer{bs: bs}
	w.string(v.Title)
	w.string(v.Company)
	w.string(string(v.WorkStyle))
	w.string(string(v.WorkType))
	w.string(v.Location)
	w.string(v.Salary)
	w.string(v.Description)
	return w.n
}

func (jobMUS) Unmarshal(bs []byte) (v core.Job, n int, err error) {
	r := reader{bs: bs}
	v.Title = r.string()
	v.Company = r.string()
	v.WorkStyle = core.WorkStyle(r.string())
	v.WorkType = core.WorkType(r.string())
	v.Location = r.string()
	v.Salary = r.string()
	v.Description = r.string()
	return v, r.n, r.err
}

func sizeJobs(jobs []core.Job) int {
	size := varint.Int.Size(len(jobs))
	for _, j := range jobs {
		size += JobMUS.Size(j)
	}
	return size
}

type sessionMUS struct{}

func (sessionMUS) Size(v core.Session) int {
	return ord.String.Size(v.ID) +
		ord.String.Size(v.UserName) +
		ord.String.Size(v.Summary) +
		ord.String.Size(v.Assessment.Code) +
		ord.String.Size(v.Assessment.Narrative) +
		sizeJobs(v.Jobs) +
		sizeJobs(v.Saved) +
		varint.Int64.Size(timeToMicro(v.UpdatedAt))
}

func (sessionMUS) Marshal(v core.Session, bs []byte) int {
	w := writer{bs: bs}
	w.string(v.ID)
	w.string(v.UserName)
	w.string(v.Summary)
	w.string(v.Assessment.Code)
	w.string(v.Assessment.Narrative)
	w.jobs(v.Jobs)
	w.jobs(v.Saved)
	w.int64(timeToMicro(v.UpdatedAt))
	return w.n
}

func (sessionMUS) Unmarshal(bs []byte) (v core.Session, n int, err error) {
	r := reader{bs: bs}
	v.ID = r.string()
	v.UserName = r.string()
	v.Summary = r.string()
	v.Assessment.Code = r.string()
	v.Assessment.Narrative = r.string()
	v.Jobs = r.jobs()
	v.Saved = r.jobs()
	v.UpdatedAt = microToTime(r.int64())
	return v, r.n, r.err
}

// StoredDocument is a vector-index entry as persisted by embedded backends.
type StoredDocument struct {
	Document
	Vector []float32
}

type documentMUS struct{}

func (documentMUS) Size(v StoredDocument) int {
	size := IDMUS.Size(v.ID) + ord.String.Size(v.Content)
	size += varint.Int.Size(len(v.Metadata))
	for k, val := range v.Metadata {
		size += ord.String.Size(k) + ord.String.Size(val)
	}
	size += varint.Int.Size(len(v.Vector))
	for _, f := range v.Vector {
		size += varint.Uint32.Size(math.Float32bits(f))
	}
	return size
}

func (documentMUS) Marshal(v StoredDocument, bs []byte) int {
	w := writer{bs: bs}
	w.n += IDMUS.Marshal(v.ID, bs)
	w.string(v.Content)
	w.n += varint.Int.Marshal(len(v.Metadata), bs[w.n:])
	for k, val := range v.Metadata {
		w.string(k)
		w.string(val)
	}
	w.n += varint.Int.Marshal(len(v.Vector), bs[w.n:])
	for _, f := range v.Vector {
		w.n += varint.Uint32.Marshal(math.Float32bits(f), bs[w.n:])
	}
	return w.n
}

func (documentMUS) Unmarshal(bs []byte) (v StoredDocument, n int, err error) {
	r := reader{bs: bs}
	var id core.ID
	id, r.n, r.err = IDMUS.Unmarshal(bs)
	v.ID = id
	v.Content = r.string()
	if count := r.length(); count > 0 {
		v.Metadata = make(map[string]string, count)
		for range count {
			k := r.string()
			v.Metadata[k] = r.string()
		}
	}
	if count := r.length(); count > 0 {
		v.Vector = make([]float32, count)
		for i := range v.Vector {
			v.Vector[i] = math.Float32frombits(r.uint32())
		}
	}
	return v, r.n, r.err
}

type checkpointMUS struct{}

func (checkpointMUS) Size(v core.Checkpoint) int {
	return ord.String.Size(v.Source) +
		varint.Int64.Size(v.Offset) +
		varint.Int64.Size(timeToMicro(v.UpdatedAt))
}

func (checkpointMUS) Marshal(v core.Checkpoint, bs []byte) int {
	w := writer{bs: bs}
	w.string(v.Source)
	w.int64(v.Offset)
	w.int64(timeToMicro(v.UpdatedAt))
	return w.n
}

func (checkpointMUS) Unmarshal(bs []byte) (v core.Checkpoint, n int, err error) {
	r := reader{bs: bs}
	v.Source = r.string()
	v.Offset = r.int64()
	v.UpdatedAt = microToTime(r.int64())
	return v, r.n, r.err
}

type writer struct {
	bs []byte
	n  int
}

func (w *writer) string(v string) { w.n += ord.String.Marshal(v, w.bs[w.n:]) }

func (w *writer) int64(v int64) { w.n += varint.Int64.Marshal(v, w.bs[w.n:]) }

func (w *writer) jobs(jobs []core.Job) {
	w.n += varint.Int.Marshal(len(jobs), w.bs[w.n:])
	for _, j := range jobs {
		w.n += JobMUS.Marshal(j, w.bs[w.n:])
	}
}

// reader stops consuming input after the first error.
type reader struct {
	bs  []byte
	n   int
	err error
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) uint32() uint32 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint32.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) length() int {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	if err == nil && (v < 0 || v > len(r.bs)-r.n) {
		// every element takes at least one byte
		r.err = ErrTruncatedData
		return 0
	}
	return v
}

func (r *reader) jobs() []core.Job {
	count := r.length()
	if count == 0 {
		return nil
	}
	jobs := make([]core.Job, 0, count)
	for range count {
		if r.err != nil {
			return nil
		}
		j, n, err := JobMUS.Unmarshal(r.bs[r.n:])
		r.n += n
		r.err = err
		jobs = append(jobs, j)
	}
	return jobs
}

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}
