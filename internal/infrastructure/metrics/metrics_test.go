package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSortJob(t *testing.T) {
	before := testutil.ToFloat64(sortFilesTotal.WithLabelValues("size", "placed"))

	RecordSortJob("size", "partial", 3, 1, 4096, 10*time.Millisecond)

	assert.Equal(t, before+3, testutil.ToFloat64(sortFilesTotal.WithLabelValues("size", "placed")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(sortJobsTotal.WithLabelValues("size", "partial")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(sortBytesTotal.WithLabelValues("size")), 4096.0)
}

func TestRecordSync(t *testing.T) {
	before := testutil.ToFloat64(syncRunsTotal.WithLabelValues("gmail", "error"))
	RecordSync("gmail", false)
	assert.Equal(t, before+1, testutil.ToFloat64(syncRunsTotal.WithLabelValues("gmail", "error")))
}
