package parse_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/apilens/internal/model"
	"github.com/jpl-au/apilens/internal/parse"
)

const sampleDoc = `<?xml version="1.0"?>
<doc>
<assembly><name>Acme.Widgets</name></assembly>
<members>
<member name="M:Acme.Widgets.Gearbox.Spin(System.Int32)">
<summary>Spins the gearbox. See <see cref="T:Acme.Widgets.IGearbox"/> for details.</summary>
<param name="speed">Target speed in RPM.</param>
<exception cref="T:System.ArgumentOutOfRangeException">speed is negative.</exception>
<returns>The final RPM.</returns>
<example>
Basic usage:
<code>gearbox.Spin(10);</code>
</example>
</member>
<member name="T:Acme.Widgets.Gearbox">
<summary>Represents a gearbox.</summary>
</member>
</members>
</doc>`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Acme.Widgets.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))
	return path
}

func collect(t *testing.T, path string, override *model.PackageEntry) []model.MemberRecord {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, errs := parse.ParseFileStream(ctx, path, override)
	var out []model.MemberRecord
	for records != nil || errs != nil {
		select {
		case r, ok := <-records:
			if !ok {
				records = nil
				continue
			}
			out = append(out, r)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			require.NoError(t, err)
		}
	}
	return out
}

func TestParseFileStream_YieldsOneRecordPerMember(t *testing.T) {
	path := writeSample(t)
	records := collect(t, path, nil)
	require.Len(t, records, 2)
}

func TestParseFileStream_MethodFieldsExtracted(t *testing.T) {
	path := writeSample(t)
	records := collect(t, path, nil)

	var method *model.MemberRecord
	for i := range records {
		if records[i].Kind == model.KindMethod {
			method = &records[i]
		}
	}
	require.NotNil(t, method)
	assert.Equal(t, "Spin", method.Name)
	assert.Contains(t, method.Summary, "Spins the gearbox")
	require.Len(t, method.Parameters, 1)
	assert.Equal(t, "speed", method.Parameters[0].Name)
	require.Len(t, method.Exceptions, 1)
	assert.Equal(t, "System.ArgumentOutOfRangeException", method.Exceptions[0].Type)
	require.Len(t, method.CodeExamples, 1)
	assert.Equal(t, "gearbox.Spin(10);", method.CodeExamples[0].Code)
}

func TestParseFileStream_TypeKindParsed(t *testing.T) {
	path := writeSample(t)
	records := collect(t, path, nil)

	var typ *model.MemberRecord
	for i := range records {
		if records[i].Kind == model.KindType {
			typ = &records[i]
		}
	}
	require.NotNil(t, typ)
	assert.Equal(t, "Gearbox", typ.Name)
}

func TestParseFileStream_OverridePackagingContext(t *testing.T) {
	path := writeSample(t)
	override := &model.PackageEntry{PackageID: "acme.widgets", Version: "1.2.3", Framework: "net8.0"}
	records := collect(t, path, override)

	require.NotEmpty(t, records)
	assert.Equal(t, "acme.widgets", records[0].PackageID)
	assert.True(t, records[0].IsFromCache)
}

func TestParseFileStream_MissingFileReturnsParseError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	records, errs := parse.ParseFileStream(ctx, "/does/not/exist.xml", nil)
	_, recordsOK := <-records
	assert.False(t, recordsOK)

	err := <-errs
	require.Error(t, err)
}

func TestParseFileStream_CancellationStopsEarly(t *testing.T) {
	path := writeSample(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, errs := parse.ParseFileStream(ctx, path, nil)
	var gotErr bool
	for errs != nil {
		if _, ok := <-errs; ok {
			gotErr = true
		} else {
			errs = nil
		}
	}
	for range records {
	}
	assert.True(t, gotErr)
}
