package payload

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/tc-hib/winres"
)

// Mode selects how Embed attaches the package to the stub.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeResource Mode = "resource"
	ModeAppend   Mode = "append"
)

// ParseMode validates a mode name; the empty name means auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeResource, ModeAppend:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown embed mode %q (want auto, resource or append)", s)
	}
}

// EmbedOptions describes one bootstrapper build.
type EmbedOptions struct {
	StubPath    string
	PackagePath string
	OutputPath  string
	Mode        Mode
	Codec       string
	// Checksum, when set, pins the package ("sha256:<hex>" or bare hex).
	Checksum string
}

// Embed writes OutputPath: the stub with the installer package attached.
// The output is built next to its destination and moved into place.
func Embed(opts EmbedOptions, logger hclog.Logger) error {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return err
	}
	codec, err := CodecByName(opts.Codec)
	if err != nil {
		return err
	}

	pkg, err := os.ReadFile(opts.PackagePath)
	if err != nil {
		return fmt.Errorf("failed to read installer package: %w", err)
	}
	if len(pkg) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyPackage, opts.PackagePath)
	}
	if opts.Checksum != "" {
		ok, err := VerifyChecksum(pkg, opts.Checksum)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s is %s", ErrChecksumMismatch, opts.PackagePath, CalculateChecksum(pkg, ChecksumSHA256))
		}
	}

	stub, err := os.ReadFile(opts.StubPath)
	if err != nil {
		return fmt.Errorf("failed to read stub: %w", err)
	}

	if mode == ModeAuto {
		mode = ModeAppend
		if IsPE(stub) {
			mode = ModeResource
		}
		logger.Debug("Resolved embed mode", "mode", mode, "stub", opts.StubPath)
	}
	if mode == ModeResource && codec.ID() != CodecNone {
		return fmt.Errorf("codec %s is not supported for resource embedding", codec.Name())
	}

	logger.Info("Embedding installer package",
		"stub", opts.StubPath,
		"package", opts.PackagePath,
		"package_size", len(pkg),
		"mode", mode,
		"codec", codec.Name())

	tmpPath := opts.OutputPath + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}

	switch mode {
	case ModeResource:
		err = writeWithResource(out, stub, pkg, logger)
	default:
		err = writeWithEnvelope(out, stub, pkg, codec)
	}
	if err != nil {
		out.Close()
		os.Remove(tmpPath)
		return err
	}

	// Close before replacing; Windows refuses to move open files.
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close output file: %w", err)
	}

	if err := atomicReplace(tmpPath, opts.OutputPath, logger); err != nil {
		os.Remove(tmpPath)
		return err
	}

	logger.Info("Bootstrapper written",
		"output", opts.OutputPath,
		"checksum", CalculateChecksum(pkg, ChecksumSHA256))
	return nil
}

func writeWithResource(out *os.File, stub, pkg []byte, logger hclog.Logger) error {
	if err := checkPEImage(stub); err != nil {
		return fmt.Errorf("stub cannot carry resources: %w", err)
	}

	rs, err := winres.LoadFromEXE(bytes.NewReader(stub))
	if err != nil {
		logger.Debug("Creating new resource set (no existing resources)", "error", err)
		rs = &winres.ResourceSet{}
	}

	logger.Debug("Setting payload resource",
		"type", ResourceType,
		"id", ResourceID,
		"lang", fmt.Sprintf("0x%04x", ResourceLang),
		"size", len(pkg))

	if err := rs.Set(winres.Name(ResourceType), winres.ID(ResourceID), ResourceLang, pkg); err != nil {
		return fmt.Errorf("failed to set payload resource: %w", err)
	}
	if err := rs.WriteToEXE(out, bytes.NewReader(stub)); err != nil {
		return fmt.Errorf("failed to write resources to EXE: %w", err)
	}
	return nil
}

func writeWithEnvelope(out *os.File, stub, pkg []byte, codec Codec) error {
	if _, err := out.Write(stub); err != nil {
		return fmt.Errorf("failed to write stub: %w", err)
	}
	if _, err := AppendEnvelope(out, pkg, codec); err != nil {
		return err
	}
	return nil
}
