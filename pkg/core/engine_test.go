package core_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/airfetch/pkg/adapters/memory"
	"github.com/aretw0/airfetch/pkg/core"
)

// stubFetcher returns canned records and remembers the filter it was asked for.
type stubFetcher struct {
	result  core.FetchResult
	filters []core.FilterOption
	block   chan struct{}
	entered chan struct{}
}

func (f *stubFetcher) FetchRecords(ctx context.Context, src core.Source, filter core.FilterOption, n core.Notifier) core.FetchResult {
	f.filters = append(f.filters, filter)
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	n.Notify(core.Notice{Kind: core.NoticeFetched, Count: len(f.result.Records), Message: "Got records"})
	return f.result
}

// committingStore adds core.Committer to the memory store.
type committingStore struct {
	*memory.Store
	commits []string
}

func (s *committingStore) Commit(_ context.Context, scope, msg string) error {
	s.commits = append(s.commits, scope+": "+msg)
	return nil
}

type recorder struct {
	reports []core.RunReport
}

func (r *recorder) RecordRun(_ context.Context, report core.RunReport) error {
	r.reports = append(r.reports, report)
	return nil
}

var testSource = core.Source{Name: "Reading", ID: "src-1", Path: "Vault", URL: "https://airtable.com/appA/tblB/viwC"}

func TestEngine_FetchWithFilter(t *testing.T) {
	store := &committingStore{Store: memory.NewStore()}
	store.Seed("Vault/Notes/Hello-World.md", "old")
	fetcher := &stubFetcher{result: core.FetchResult{
		Pages:   2,
		Records: []core.Record{helloRecord(), {Fields: core.Fields{Title: "Second", MD: "two"}}},
	}}
	rec := &recorder{}
	log := &noticeLog{}

	engine := core.NewEngine(core.Config{Store: store, Fetcher: fetcher, Notifier: log, Recorder: rec})

	report, err := engine.FetchWithFilter(context.Background(), testSource, core.FilterWeek)
	require.NoError(t, err)

	assert.Equal(t, []core.FilterOption{core.FilterWeek}, fetcher.filters)
	assert.Equal(t, "src-1", report.SourceID)
	assert.Equal(t, "week", report.Filter)
	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Modified)
	assert.Empty(t, report.FetchError)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	require.Len(t, rec.reports, 1)
	assert.Equal(t, report, rec.reports[0])
	assert.Equal(t, []string{"Vault: sync(Reading): 1 created, 1 updated"}, store.commits)

	fetched := log.kinds(core.NoticeFetched)
	require.Len(t, fetched, 1)
	assert.Equal(t, "Reading", fetched[0].Source)
	require.Len(t, log.kinds(core.NoticePlanned), 1)
	assert.Equal(t, 2, log.kinds(core.NoticePlanned)[0].Count)
	done := log.kinds(core.NoticeDone)
	require.Len(t, done, 1)
	assert.Equal(t, "Reading fetched successfully", done[0].Message)

	last, ok := engine.LastReport()
	require.True(t, ok)
	assert.Equal(t, report, last)
}

func TestEngine_PartialFetchIsNotAnError(t *testing.T) {
	store := memory.NewStore()
	fetcher := &stubFetcher{result: core.FetchResult{
		Pages:   1,
		Records: []core.Record{helloRecord()},
		Err:     errors.New("page 2: connection reset"),
	}}

	report, err := core.NewEngine(core.Config{Store: store, Fetcher: fetcher}).
		FetchWithFilter(context.Background(), testSource, core.FilterAll)
	require.NoError(t, err)

	assert.Equal(t, "page 2: connection reset", report.FetchError)
	assert.Equal(t, 1, report.Created)
	_, ok := store.Content("Vault/Notes/Hello-World.md")
	assert.True(t, ok)
}

func TestEngine_Fetch_UsesChooser(t *testing.T) {
	store := memory.NewStore()
	fetcher := &stubFetcher{}

	engine := core.NewEngine(core.Config{Store: store, Fetcher: fetcher, Chooser: &pickChooser{index: 4}})
	report, err := engine.Fetch(context.Background(), testSource)
	require.NoError(t, err)

	assert.Equal(t, "month", report.Filter)
	assert.Equal(t, []core.FilterOption{core.FilterMonth}, fetcher.filters)
}

func TestEngine_Fetch_DismissedChooserAborts(t *testing.T) {
	store := memory.NewStore()
	fetcher := &stubFetcher{}
	rec := &recorder{}

	engine := core.NewEngine(core.Config{Store: store, Fetcher: fetcher, Recorder: rec, Chooser: &pickChooser{index: -1}})
	_, err := engine.Fetch(context.Background(), testSource)

	assert.ErrorIs(t, err, core.ErrNoSelection)
	assert.Empty(t, fetcher.filters, "nothing may be fetched without a filter")
	assert.Empty(t, store.Journal())
	assert.Empty(t, rec.reports)
}

func TestEngine_Fetch_NoChooser(t *testing.T) {
	engine := core.NewEngine(core.Config{Store: memory.NewStore(), Fetcher: &stubFetcher{}})
	_, err := engine.Fetch(context.Background(), testSource)
	assert.Error(t, err)
}

func TestEngine_RejectsConcurrentRuns(t *testing.T) {
	fetcher := &stubFetcher{block: make(chan struct{}), entered: make(chan struct{})}
	engine := core.NewEngine(core.Config{Store: memory.NewStore(), Fetcher: fetcher})

	errc := make(chan error, 1)
	go func() {
		_, err := engine.FetchWithFilter(context.Background(), testSource, core.FilterAll)
		errc <- err
	}()

	<-fetcher.entered
	_, err := engine.FetchWithFilter(context.Background(), testSource, core.FilterAll)
	assert.ErrorIs(t, err, core.ErrRunInProgress)

	close(fetcher.block)
	require.NoError(t, <-errc)
}

// blockingChooser reports when it is shown and waits for release.
type blockingChooser struct {
	shown   chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (c *blockingChooser) Choose(_ context.Context, items []core.FilterOption, _ func(core.FilterOption) string) (core.FilterOption, error) {
	if c.calls.Add(1) == 1 {
		close(c.shown)
	}
	<-c.release
	return items[0], nil
}

func TestEngine_Fetch_LocksBeforePrompting(t *testing.T) {
	chooser := &blockingChooser{shown: make(chan struct{}), release: make(chan struct{})}
	engine := core.NewEngine(core.Config{Store: memory.NewStore(), Fetcher: &stubFetcher{}, Chooser: chooser})

	errc := make(chan error, 1)
	go func() {
		_, err := engine.Fetch(context.Background(), testSource)
		errc <- err
	}()

	<-chooser.shown
	_, err := engine.Fetch(context.Background(), testSource)
	assert.ErrorIs(t, err, core.ErrRunInProgress)
	assert.Equal(t, int32(1), chooser.calls.Load(), "a rejected run must not prompt")

	close(chooser.release)
	require.NoError(t, <-errc)
}

func TestEngine_State(t *testing.T) {
	store := &committingStore{Store: memory.NewStore()}
	engine := core.NewEngine(core.Config{Store: store, Fetcher: &stubFetcher{}})

	state, ok := engine.State().(core.EngineState)
	require.True(t, ok)
	assert.Equal(t, "memory", state.StoreType)
	assert.True(t, state.Versioned)
	assert.Nil(t, state.LastRun)

	_, err := engine.FetchWithFilter(context.Background(), testSource, core.FilterAll)
	require.NoError(t, err)

	state = engine.State().(core.EngineState)
	assert.Equal(t, 1, state.Runs)
	require.NotNil(t, state.LastRun)
	assert.Equal(t, "all", state.LastRun.Filter)
	assert.Equal(t, "engine", engine.ComponentType())
}
