package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/shapestone/shape-csvtok/pkg/csv"
)

// sniffSampleSize is how much input the sniffer sees.
const sniffSampleSize = 64 * 1024

// stdinName names standard input in results and log output.
const stdinName = "-"

// inputs are the sources of one command invocation.
type inputs struct {
	sources []csv.Source
	// sample returns the beginning of the first source for sniffing.
	sample func() (string, error)
}

// openInputs turns file arguments into sources read through fs. No
// arguments, or a single "-", means standard input. Standard input is
// buffered so a sniffing sample can be taken without consuming it.
func openInputs(fs afero.Fs, stdin io.Reader, args []string) inputs {
	if len(args) == 0 || (len(args) == 1 && args[0] == stdinName) {
		br := bufio.NewReaderSize(stdin, sniffSampleSize)
		return inputs{
			sources: []csv.Source{{
				Name: stdinName,
				Open: func() (io.ReadCloser, error) {
					return io.NopCloser(br), nil
				},
			}},
			sample: func() (string, error) {
				data, err := br.Peek(sniffSampleSize)
				if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
					return "", err
				}
				return string(data), nil
			},
		}
	}

	sources := make([]csv.Source, len(args))
	for i, path := range args {
		sources[i] = csv.Source{
			Name: path,
			Open: func() (io.ReadCloser, error) {
				return fs.Open(path)
			},
		}
	}
	return inputs{
		sources: sources,
		sample: func() (string, error) {
			return readSample(fs, args[0])
		},
	}
}

func readSample(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, sniffSampleSize))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
