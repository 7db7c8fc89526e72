package configgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Zeeve-App/Arbitrum-Anytrust/internal/orbit"
)

// Output file names.
const (
	NodeConfigFile = "node-config.json"
	L3ConfigFile   = "l3-config.json"
)

// NodeParams are the inputs of BuildNodeConfig.
type NodeParams struct {
	ChainName             string
	ChainConfig           orbit.ChainConfig
	CoreContracts         *orbit.CoreContracts
	BatchPosterPrivateKey string
	ValidatorPrivateKey   string
	ParentChainID         uint64
	ParentChainRPCURL     string
}

// BuildNodeConfig prepares the nitro node config.
func BuildNodeConfig(p NodeParams) (*orbit.NodeConfig, error) {
	return orbit.PrepareNodeConfig(orbit.NodeConfigParams{
		ChainName:             p.ChainName,
		ChainConfig:           p.ChainConfig,
		CoreContracts:         p.CoreContracts,
		BatchPosterPrivateKey: p.BatchPosterPrivateKey,
		ValidatorPrivateKey:   p.ValidatorPrivateKey,
		ParentChainID:         p.ParentChainID,
		ParentChainRPCURL:     p.ParentChainRPCURL,
	})
}

// FileSink persists named documents.
type FileSink interface {
	WriteFile(name string, data []byte) error
	Remove(name string) error
}

// DirSink writes files into a directory, replacing existing ones.
type DirSink struct {
	Dir string
}

// WriteFile implements FileSink.
func (s DirSink) WriteFile(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	// node-config.json carries private keys.
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0o600)
}

// Remove implements FileSink. A missing file is not an error.
func (s DirSink) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Writer encodes and persists the two configuration documents.
type Writer struct {
	sink   FileSink
	logger *slog.Logger
}

// NewWriter creates a writer on sink.
func NewWriter(sink FileSink, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{sink: sink, logger: logger}
}

// Write persists node-config.json indented by two spaces and l3-config.json
// compact. Both documents are encoded before anything is written, and a
// failed second write removes the first file.
func (w *Writer) Write(nodeConfig *orbit.NodeConfig, l3Config L3Config) error {
	nodeJSON, err := marshal(nodeConfig, "  ")
	if err != nil {
		return fmt.Errorf("marshal node config: %w", err)
	}
	l3JSON, err := marshal(l3Config, "")
	if err != nil {
		return fmt.Errorf("marshal l3 config: %w", err)
	}

	if err := w.sink.WriteFile(NodeConfigFile, nodeJSON); err != nil {
		return fmt.Errorf("write %s: %w", NodeConfigFile, err)
	}
	if err := w.sink.WriteFile(L3ConfigFile, l3JSON); err != nil {
		if rmErr := w.sink.Remove(NodeConfigFile); rmErr != nil {
			w.logger.Warn("failed to remove partial output",
				slog.String("file", NodeConfigFile),
				slog.String("error", rmErr.Error()),
			)
		}
		return fmt.Errorf("write %s: %w", L3ConfigFile, err)
	}

	w.logger.Info("configs written",
		slog.String("node_config", NodeConfigFile),
		slog.String("l3_config", L3ConfigFile),
	)
	return nil
}

// marshal encodes v without HTML escaping and without a trailing newline.
func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
