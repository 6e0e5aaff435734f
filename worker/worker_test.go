package worker

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupByKeyAscendingAndStable(t *testing.T) {
	kvs := []KV[string, int]{
		{"b", 1}, {"a", 2}, {"b", 3}, {"c", 4}, {"a", 5}, {"b", 6},
	}
	got := GroupByKey(kvs)
	require.Equal(t, []Group[string, int]{
		{Key: "a", Values: []int{2, 5}},
		{Key: "b", Values: []int{1, 3, 6}},
		{Key: "c", Values: []int{4}},
	}, got)
	// input untouched
	require.Equal(t, "b", kvs[0].Key)
}

func TestGroupByKeyCoversEveryPair(t *testing.T) {
	var kvs []KV[int, string]
	for i := 0; i < 100; i++ {
		kvs = append(kvs, KV[int, string]{Key: i % 7, Value: strconv.Itoa(i)})
	}
	groups := GroupByKey(kvs)
	require.Len(t, groups, 7)
	total := 0
	for i, g := range groups {
		require.Equal(t, i, g.Key)
		total += len(g.Values)
		for _, v := range g.Values {
			n, err := strconv.Atoi(v)
			require.NoError(t, err)
			require.Equal(t, g.Key, n%7)
		}
	}
	require.Equal(t, len(kvs), total)
}

func TestGroupByKeyEmpty(t *testing.T) {
	require.Empty(t, GroupByKey[string, string](nil))
}

func wordJob(words []string) *Job[string, string, string] {
	return NewJob("words",
		func(ctx *MrContext[string, string]) error {
			for _, w := range words {
				ctx.EmitIntermediate(w, "1")
			}
			return nil
		},
		func(key string, values []string) (string, error) {
			return key + "=" + strconv.Itoa(len(values)), nil
		})
}

func TestJobRun(t *testing.T) {
	job := wordJob([]string{"b", "a", "b"})
	got, err := job.Run()
	require.NoError(t, err)
	require.Equal(t, []string{"a=1", "b=2"}, got)
	require.Equal(t, Done, job.State)
	require.NotEmpty(t, job.UUID)
}

func TestJobRunsOnce(t *testing.T) {
	job := wordJob([]string{"a"})
	_, err := job.Run()
	require.NoError(t, err)
	_, err = job.Run()
	require.Error(t, err)
}

func TestJobIdempotentAcrossRuns(t *testing.T) {
	words := []string{"x", "y", "x", "z"}
	first, err := wordJob(words).Run()
	require.NoError(t, err)
	second, err := wordJob(words).Run()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestJobMapFailure(t *testing.T) {
	boom := errors.New("boom")
	job := NewJob("broken",
		func(ctx *MrContext[string, int]) error { return boom },
		func(key string, values []int) (int, error) { return 0, nil })
	_, err := job.Run()
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "mapping")
	require.Equal(t, Failed, job.State)
}

func TestJobReduceFailure(t *testing.T) {
	boom := errors.New("boom")
	job := NewJob("broken",
		func(ctx *MrContext[string, int]) error {
			ctx.EmitIntermediate("k", 1)
			return nil
		},
		func(key string, values []int) (int, error) { return 0, boom })
	_, err := job.Run()
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "reducing")
	require.Equal(t, Failed, job.State)
}

func TestJobCombineWithValueOrder(t *testing.T) {
	job := NewJob("combine",
		func(ctx *MrContext[string, string]) error {
			ctx.EmitIntermediate("f", "c")
			ctx.EmitIntermediate("g", "z")
			ctx.EmitIntermediate("f", "a")
			ctx.EmitIntermediate("f", "b")
			return nil
		},
		func(key string, values []string) (string, error) {
			require.Len(t, values, 1)
			return key + ":" + values[0], nil
		})
	job.ValueOrder = strings.Compare
	job.Combinef = func(key string, values []string) (string, error) {
		return strings.Join(values, ""), nil
	}
	got, err := job.Run()
	require.NoError(t, err)
	require.Equal(t, []string{"f:abc", "g:z"}, got)
}

func TestJobDumpIntermediate(t *testing.T) {
	job := wordJob([]string{"b", "a"})
	job.DumpIMD = true
	job.IMDDir = t.TempDir()
	_, err := job.Run()
	require.NoError(t, err)
	require.Contains(t, job.IMDFile, job.UUID)

	raw, err := os.ReadFile(job.IMDFile)
	require.NoError(t, err)
	require.Equal(t, []KV[string, string]{{"b", "1"}, {"a", "1"}}, DecodeIMDKVs(string(raw)))
}

func TestDecodeIMDKVsSkipsBrokenLines(t *testing.T) {
	got := DecodeIMDKVs("a\t1\nbroken\n\nb\t2 3\n")
	require.Equal(t, []KV[string, string]{{"a", "1"}, {"b", "2 3"}}, got)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "grouping", Grouping.String())
	require.Equal(t, "state(42)", State(42).String())
}
