package payload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "payload_test",
		Level: hclog.Trace,
	})
}

// writeInputs creates a non-PE stub and an installer package on disk.
func writeInputs(t *testing.T, pkg []byte) (dir, stub, pkgPath string) {
	t.Helper()
	dir = t.TempDir()
	stub = filepath.Join(dir, "stub")
	pkgPath = filepath.Join(dir, "setup.msi")
	require.NoError(t, os.WriteFile(stub, []byte("\x7fELF fake stub image"), 0o755))
	require.NoError(t, os.WriteFile(pkgPath, pkg, 0o644))
	return dir, stub, pkgPath
}

func msiLike() []byte {
	// Compound file header followed by enough repetition to compress.
	data := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	return append(data, bytes.Repeat([]byte("DeviceHive installer "), 200)...)
}

func TestEmbedAppend_RoundTrip(t *testing.T) {
	for _, codec := range []string{"none", "gzip", "bzip2"} {
		t.Run(codec, func(t *testing.T) {
			pkg := msiLike()
			dir, stub, pkgPath := writeInputs(t, pkg)
			out := filepath.Join(dir, "setup")

			err := Embed(EmbedOptions{
				StubPath:    stub,
				PackagePath: pkgPath,
				OutputPath:  out,
				Codec:       codec,
			}, testLogger())
			require.NoError(t, err)

			_, err = os.Stat(out + ".tmp")
			assert.True(t, os.IsNotExist(err), "temporary output should be gone")

			built, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(built, []byte("\x7fELF fake stub image")))

			p, err := Open(out, testLogger())
			require.NoError(t, err)
			assert.Equal(t, pkg, p.Data)
			assert.Equal(t, OriginEnvelope, p.Origin)
			assert.Equal(t, codec, p.Codec)
			assert.Equal(t, int64(len(pkg)), p.Size())
			assert.Equal(t, CalculateChecksum(pkg, ChecksumSHA256), p.Checksum())
			if codec != "none" {
				assert.Less(t, p.EncodedSize, p.Size())
			}
		})
	}
}

func TestExecutable_Load(t *testing.T) {
	pkg := []byte("0123456789")
	dir, stub, pkgPath := writeInputs(t, pkg)
	out := filepath.Join(dir, "setup")
	require.NoError(t, Embed(EmbedOptions{StubPath: stub, PackagePath: pkgPath, OutputPath: out}, nil))

	src := &Executable{Path: out, Logger: testLogger()}
	data, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, pkg, data)
}

func TestOpen_NoPayload(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "small")
	require.NoError(t, os.WriteFile(small, []byte("tiny"), 0o644))
	_, err := Open(small, testLogger())
	assert.ErrorIs(t, err, ErrNotFound)

	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, bytes.Repeat([]byte{0xAB}, 4096), 0o644))
	_, err = Open(plain, testLogger())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Open(filepath.Join(dir, "missing"), testLogger())
	assert.Error(t, err)
}

func TestReadEnvelope_Corruption(t *testing.T) {
	pkg := []byte("0123456789abcdef")

	build := func(t *testing.T) (string, []byte) {
		dir, stub, pkgPath := writeInputs(t, pkg)
		out := filepath.Join(dir, "setup")
		require.NoError(t, Embed(EmbedOptions{StubPath: stub, PackagePath: pkgPath, OutputPath: out}, nil))
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		return out, data
	}

	t.Run("bad start magic", func(t *testing.T) {
		out, data := build(t)
		data[len(data)-TrailerSize] ^= 0xFF
		require.NoError(t, os.WriteFile(out, data, 0o644))

		_, err := ReadEnvelope(out, testLogger())
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("tampered payload", func(t *testing.T) {
		out, data := build(t)
		data[len(data)-TrailerSize-1] ^= 0xFF
		require.NoError(t, os.WriteFile(out, data, 0o644))

		_, err := ReadEnvelope(out, testLogger())
		assert.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("truncated payload", func(t *testing.T) {
		out, data := build(t)
		trailer := data[len(data)-TrailerSize:]
		require.NoError(t, os.WriteFile(out, trailer, 0o644))

		_, err := ReadEnvelope(out, testLogger())
		assert.ErrorIs(t, err, ErrSizeMismatch)
	})

	t.Run("unknown codec", func(t *testing.T) {
		out, data := build(t)
		data[len(data)-TrailerSize+4] = 0x7F
		require.NoError(t, os.WriteFile(out, data, 0o644))

		_, err := ReadEnvelope(out, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown codec")
	})
}

func TestEmbed_Errors(t *testing.T) {
	t.Run("empty package", func(t *testing.T) {
		dir, stub, pkgPath := writeInputs(t, nil)
		err := Embed(EmbedOptions{StubPath: stub, PackagePath: pkgPath, OutputPath: filepath.Join(dir, "out")}, nil)
		assert.ErrorIs(t, err, ErrEmptyPackage)
	})

	t.Run("unknown codec", func(t *testing.T) {
		dir, stub, pkgPath := writeInputs(t, []byte("x"))
		err := Embed(EmbedOptions{StubPath: stub, PackagePath: pkgPath, OutputPath: filepath.Join(dir, "out"), Codec: "zstd"}, nil)
		assert.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		dir, stub, pkgPath := writeInputs(t, []byte("x"))
		err := Embed(EmbedOptions{StubPath: stub, PackagePath: pkgPath, OutputPath: filepath.Join(dir, "out"), Mode: "overlay"}, nil)
		assert.Error(t, err)
	})

	t.Run("resource mode rejects codec", func(t *testing.T) {
		dir, stub, pkgPath := writeInputs(t, []byte("x"))
		err := Embed(EmbedOptions{
			StubPath: stub, PackagePath: pkgPath, OutputPath: filepath.Join(dir, "out"),
			Mode: ModeResource, Codec: "gzip",
		}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported for resource embedding")
	})

	t.Run("auto picks resource for PE stub", func(t *testing.T) {
		dir := t.TempDir()
		stub := filepath.Join(dir, "stub.exe")
		pkgPath := filepath.Join(dir, "setup.msi")
		out := filepath.Join(dir, "setup.exe")
		require.NoError(t, os.WriteFile(stub, fakePEHeader(), 0o755))
		require.NoError(t, os.WriteFile(pkgPath, []byte("x"), 0o644))

		err := Embed(EmbedOptions{StubPath: stub, PackagePath: pkgPath, OutputPath: out}, testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stub cannot carry resources")
		assert.Contains(t, err.Error(), "no optional header")

		_, statErr := os.Stat(out + ".tmp")
		assert.True(t, os.IsNotExist(statErr), "temporary output should be removed")
		_, statErr = os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	})
}

// fakePEHeader is an MZ header pointing at a PE signature with nothing
// usable behind it.
func fakePEHeader() []byte {
	b := make([]byte, 0x80)
	b[0], b[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(b[0x3C:], 0x40)
	copy(b[0x40:], "PE\x00\x00")
	return b
}

func TestIsPE(t *testing.T) {
	assert.True(t, IsPE(fakePEHeader()))
	assert.False(t, IsPE([]byte("MZ but not a real PE image")))
	assert.False(t, IsPE([]byte("#!/bin/sh\n")))

	bad := fakePEHeader()
	binary.LittleEndian.PutUint32(bad[0x3C:], 0xFFFF)
	assert.False(t, IsPE(bad))
}

func TestEmbed_Checksum(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "stub")
	pkgPath := filepath.Join(dir, "setup.msi")
	out := filepath.Join(dir, "setup")
	pkg := []byte("pinned package")
	require.NoError(t, os.WriteFile(stub, []byte("stub"), 0o755))
	require.NoError(t, os.WriteFile(pkgPath, pkg, 0o644))

	opts := EmbedOptions{StubPath: stub, PackagePath: pkgPath, OutputPath: out, Mode: ModeAppend}

	opts.Checksum = CalculateChecksum(pkg, ChecksumSHA512)
	require.NoError(t, Embed(opts, nil))

	opts.Checksum = CalculateChecksum([]byte("something else"), ChecksumSHA256)
	err := Embed(opts, nil)
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	opts.Checksum = "md5:abc"
	assert.Error(t, Embed(opts, nil))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAuto, m)

	m, err = ParseMode("append")
	require.NoError(t, err)
	assert.Equal(t, ModeAppend, m)

	_, err = ParseMode("inline")
	assert.Error(t, err)
}

func TestAppendEnvelope_WriterError(t *testing.T) {
	codec, err := CodecByName("none")
	require.NoError(t, err)

	_, err = AppendEnvelope(failingWriter{}, []byte("abc"), codec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDiskFull))
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errDiskFull }
