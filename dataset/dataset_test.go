package dataset

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vsabench/sparse"
)

func testConfig(count, seed uint64) GenerateConfig {
	cfg := DefaultGenerateConfig()
	cfg.Count = count
	cfg.Seed = seed
	return cfg
}

func writeGenerated(t *testing.T, cfg GenerateConfig, opts ...WriterOption) (string, []sparse.Vec) {
	t.Helper()
	vectors, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "data.embr")
	require.NoError(t, WriteDataset(path, vectors, cfg, opts...))
	return path, vectors
}

func TestHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Meta{Count: 3, Dimension: 10_000, Seed: 7}))

	b := buf.Bytes()
	require.Len(t, b, 68)
	assert.Equal(t, []byte("EMBR_DST"), b[0:8])
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[8:12]))
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(b[12:20]))
	assert.Equal(t, uint64(10_000), binary.LittleEndian.Uint64(b[20:28]))
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(b[28:36]))
	assert.Equal(t, make([]byte, 32), b[36:68])
}

func TestRecordLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVector(&buf, sparse.Vec{Pos: []uint32{1, 258}, Neg: []uint32{3}}))

	want := []byte{
		2, 0, 0, 0, 1, 0, 0, 0, 2, 1, 0, 0,
		1, 0, 0, 0, 3, 0, 0, 0,
	}
	assert.Equal(t, want, buf.Bytes())

	v, err := ReadVector(bytes.NewReader(want))
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 258}, v.Pos)
	assert.Equal(t, []uint32{3}, v.Neg)
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	cfg := testConfig(50, 123)
	path, vectors := writeGenerated(t, cfg)

	meta, loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Meta{Count: 50, Dimension: 10_000, Seed: 123}, meta)
	require.Len(t, loaded, len(vectors))
	for i := range vectors {
		assert.Equal(t, vectors[i].Pos, loaded[i].Pos)
		assert.Equal(t, vectors[i].Neg, loaded[i].Neg)
		require.NoError(t, loaded[i].Validate(meta.Dimension))
	}

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, ExpectedFileSize(50, 100), uint64(st.Size()))
}

func TestReadMeta(t *testing.T) {
	path, _ := writeGenerated(t, testConfig(5, 77))
	meta, err := ReadMeta(path)
	require.NoError(t, err)
	assert.Equal(t, Meta{Count: 5, Dimension: 10_000, Seed: 77}, meta)
}

func TestStreamingWriterMatchesInMemory(t *testing.T) {
	cfg := testConfig(250, 2026)
	memPath, _ := writeGenerated(t, cfg)

	streamPath := filepath.Join(t.TempDir(), "stream.embr")
	require.NoError(t, WriteDatasetStreaming(context.Background(), streamPath, cfg, 64))

	a, err := os.ReadFile(memPath)
	require.NoError(t, err)
	b, err := os.ReadFile(streamPath)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "files differ")
}

func TestStreamingBatchSizeDoesNotChangeContent(t *testing.T) {
	cfg := testConfig(20, 42)
	dir := t.TempDir()

	var files [][]byte
	for _, bs := range []int{0, 1, 3, 4096} {
		path := filepath.Join(dir, "b.embr")
		require.NoError(t, WriteDatasetStreaming(context.Background(), path, cfg, bs))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		files = append(files, data)
	}
	for i := 1; i < len(files); i++ {
		assert.Equal(t, files[0], files[i])
	}

	// Vector #7 is the same whichever way it was produced.
	path := filepath.Join(dir, "b.embr")
	_, loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded[7].Equal(GenerateVector(42, 7, 10_000, 100)))
}

func TestStreamingProgress(t *testing.T) {
	var seen []uint64
	path := filepath.Join(t.TempDir(), "p.embr")
	err := WriteDatasetStreaming(context.Background(), path, GenerateConfig{Count: 10, Dimension: 100, Seed: 1, Sparsity: 2}, 4,
		WithProgress(func(n uint64) { seen = append(seen, n) }))
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 8, 10}, seen)
}

func TestStreamingRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.embr")
	err := WriteDatasetStreaming(context.Background(), path, GenerateConfig{Count: 1, Dimension: 10, Sparsity: 6}, 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestStreamingReader(t *testing.T) {
	path, vectors := writeGenerated(t, testConfig(25, 999))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, uint64(25), r.Meta().Count)

	count := 0
	for v, err := range r.All() {
		require.NoError(t, err)
		assert.Equal(t, vectors[count].Pos, v.Pos)
		assert.Equal(t, vectors[count].Neg, v.Neg)
		count++
	}
	assert.Equal(t, 25, count)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestResetAllowsRepeatedPasses(t *testing.T) {
	path, vectors := writeGenerated(t, testConfig(25, 999))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	for pass := 0; pass < 3; pass++ {
		require.NoError(t, r.Reset())
		assert.Equal(t, uint64(0), r.Position())
		n := 0
		for v, err := range r.All() {
			require.NoError(t, err)
			require.True(t, vectors[n].Equal(v), "pass %d vector %d", pass, n)
			n++
		}
		assert.Equal(t, 25, n, "pass %d", pass)
	}
}

func TestResetMidStream(t *testing.T) {
	path, vectors := writeGenerated(t, testConfig(10, 5))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadBatch(4)
	require.NoError(t, err)
	require.NoError(t, r.Reset())

	v, err := r.Next()
	require.NoError(t, err)
	assert.True(t, vectors[0].Equal(v))
}

func TestReadBatch(t *testing.T) {
	path, vectors := writeGenerated(t, testConfig(100, 456))
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	batch, err := r.ReadBatch(30)
	require.NoError(t, err)
	require.Len(t, batch, 30)
	for i, v := range batch {
		assert.Equal(t, vectors[i].Pos, v.Pos)
	}

	rest, err := r.ReadBatch(1000)
	require.NoError(t, err)
	assert.Len(t, rest, 70)
	assert.True(t, vectors[30].Equal(rest[0]))

	none, err := r.ReadBatch(10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpenRejectsBadMagic(t *testing.T) {
	path, _ := writeGenerated(t, testConfig(3, 1))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[0] = 'X'
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Open(path)
	require.ErrorIs(t, err, ErrInvalidFormat)
	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Reason, "magic")

	_, _, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestOpenRejectsUnknownVersion(t *testing.T) {
	path, _ := writeGenerated(t, testConfig(3, 1))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(data[8:12], 2)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = ReadMeta(path)
	require.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "version 2")
}

func TestOpenIgnoresReservedBytes(t *testing.T) {
	path, vectors := writeGenerated(t, testConfig(3, 1))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for i := 36; i < 68; i++ {
		data[i] = 0xff
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, vectors[2].Equal(loaded[2]))
}

func TestTruncatedRecord(t *testing.T) {
	path, _ := writeGenerated(t, testConfig(3, 1))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-6], 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadBatch(3)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	var re *RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, uint64(2), re.Index)
}

func corruptLength(t *testing.T, n uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Meta{Count: 1, Dimension: 100, Seed: 1}))
	buf.Write(binary.LittleEndian.AppendUint32(nil, n))
	return buf.Bytes()
}

func TestRecordLengthBeyondDimension(t *testing.T) {
	for _, n := range []uint32{101, 1 << 30, math.MaxUint32} {
		r, err := NewReader(bytes.NewReader(corruptLength(t, n)))
		require.NoError(t, err)

		_, err = r.Next()
		require.ErrorIs(t, err, ErrRecordLength)
		var re *RecordError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, uint64(0), re.Index)
	}
}

func TestReadVectorHugeLengthWithoutData(t *testing.T) {
	data := corruptLength(t, math.MaxUint32)[HeaderSize:]

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := ReadVector(bytes.NewReader(data))
	runtime.ReadMemStats(&after)

	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestMissingRecords(t *testing.T) {
	path, _ := writeGenerated(t, testConfig(3, 1))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Cut exactly at a record boundary: the header still promises 3.
	require.NoError(t, os.WriteFile(path, data[:int(ExpectedFileSize(2, 100))], 0o644))

	_, _, err = Load(path)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestShortHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.embr")
	require.NoError(t, os.WriteFile(path, []byte("EMBR_DST\x01\x00"), 0o644))
	_, err := Open(path)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.embr"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewReaderOverMemory(t *testing.T) {
	cfg := GenerateConfig{Count: 4, Dimension: 64, Seed: 3, Sparsity: 2}
	vectors, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, cfg.Meta()))
	for _, v := range vectors {
		require.NoError(t, WriteVector(&buf, v))
	}

	r, err := NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		got, err := r.ReadBatch(10)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.True(t, vectors[3].Equal(got[3]))
		require.NoError(t, r.Reset())
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			cfg := testConfig(30, 11)
			path := filepath.Join(t.TempDir(), "data.embr"+c.Ext())
			require.NoError(t, WriteDatasetStreaming(context.Background(), path, cfg, 7, WithCompression(c)))

			plain, err := Generate(context.Background(), cfg)
			require.NoError(t, err)

			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()
			assert.Equal(t, c, r.Compression())
			assert.Equal(t, cfg.Meta(), r.Meta())

			for pass := 0; pass < 2; pass++ {
				got, err := r.ReadBatch(100)
				require.NoError(t, err)
				require.Len(t, got, 30)
				for i := range got {
					require.True(t, plain[i].Equal(got[i]), "pass %d vector %d", pass, i)
				}
				require.NoError(t, r.Reset())
			}

			if c == CompressionZSTD {
				st, err := os.Stat(path)
				require.NoError(t, err)
				assert.Less(t, uint64(st.Size()), ExpectedFileSize(30, 100))
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("brotli")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "sparsevec_10k_10000_seed42.embr", FileName(10_000, 10_000, 42))
	assert.Equal(t, "sparsevec_1m_10000_seed0.embr", FileName(1_000_000, 10_000, 0))
	assert.Equal(t, "sparsevec_1500_512_seed7.embr", FileName(1500, 512, 7))
}

func TestChecksumStable(t *testing.T) {
	cfg := testConfig(10, 8)
	a, _ := writeGenerated(t, cfg)
	b := filepath.Join(t.TempDir(), "b.embr")
	require.NoError(t, WriteDatasetStreaming(context.Background(), b, cfg, 3))

	sa, err := Checksum(a)
	require.NoError(t, err)
	sb, err := Checksum(b)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}
