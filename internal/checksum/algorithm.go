package checksum

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Algorithm is one of the checksum algorithms s3 can compute and store
// at upload time. The zero value means checksums are disabled.
type Algorithm string

const (
	None      Algorithm = ""
	CRC64NVME Algorithm = "CRC64NVME"
	CRC32C    Algorithm = "CRC32C"
	CRC32     Algorithm = "CRC32"
	SHA256    Algorithm = "SHA256"
	SHA1      Algorithm = "SHA1"
)

// Default is used when no algorithm is configured and when an
// unrecognized name is corrected in lenient mode.
const Default = CRC64NVME

type ErrUnknownAlgorithm struct {
	name string
}

func (e *ErrUnknownAlgorithm) Error() string {
	return fmt.Sprintf("unknown checksum algorithm: %q", e.name)
}

// Parse normalizes a free-form algorithm name. In strict mode an
// unrecognized name is an error; otherwise it is corrected to the
// default and the substitution is logged.
func Parse(name string, strict bool) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "CRC64NVME":
		return CRC64NVME, nil
	case "CRC32C":
		return CRC32C, nil
	case "CRC32":
		return CRC32, nil
	case "SHA256":
		return SHA256, nil
	case "SHA1":
		return SHA1, nil
	case "NONE":
		return None, nil
	}

	if strict {
		return None, &ErrUnknownAlgorithm{name: name}
	}

	slog.Warn("unrecognized checksum algorithm, using default",
		"algorithm", name, "default", string(Default))
	return Default, nil
}

// S3Type returns the sdk identifier for the algorithm.
func (a Algorithm) S3Type() types.ChecksumAlgorithm {
	switch a {
	case CRC64NVME:
		return types.ChecksumAlgorithmCrc64nvme
	case CRC32C:
		return types.ChecksumAlgorithmCrc32c
	case CRC32:
		return types.ChecksumAlgorithmCrc32
	case SHA256:
		return types.ChecksumAlgorithmSha256
	case SHA1:
		return types.ChecksumAlgorithmSha1
	}
	return ""
}

func (a Algorithm) String() string {
	if a == None {
		return "NONE"
	}
	return string(a)
}

// Policy is the per-run checksum configuration derived from config.
// ServerSide and the algorithm travel with every upload; LegacyVerify
// selects the download-and-rehash strategy driven by a local record.
type Policy struct {
	Algorithm    Algorithm
	ServerSide   bool
	LegacyVerify bool
}

// NewPolicy derives the run policy. enabled=false or algorithm NONE
// disables server-side checksums; legacy verification is independent.
func NewPolicy(name string, enabled, legacyVerify, strict bool) (Policy, error) {
	algo := None
	if enabled {
		var err error
		algo, err = Parse(name, strict)
		if err != nil {
			return Policy{}, err
		}
	}

	return Policy{
		Algorithm:    algo,
		ServerSide:   algo != None,
		LegacyVerify: legacyVerify,
	}, nil
}
