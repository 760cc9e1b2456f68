package hunspell

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// setEncoding returns the SET value of an affix file without decoding it.
// SET is ASCII and precedes any non-ASCII content.
func setEncoding(aff []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(aff))
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) > 1 && f[0] == "SET" {
			return f[1]
		}
	}
	return "UTF-8"
}

// toUTF8 decodes data from the Hunspell SET charset.
func toUTF8(data []byte, charset string) ([]byte, error) {
	name := strings.ToUpper(charset)
	if name == "" || name == "UTF-8" || name == "UTF8" {
		return data, nil
	}
	if strings.HasPrefix(name, "ISO8859-") {
		name = "ISO-8859-" + strings.TrimPrefix(name, "ISO8859-")
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported SET %q", charset)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", charset, err)
	}
	return out, nil
}
