// Command lingonberry inspects Lingonberry binary payloads.
//
// Usage:
//
//	lingonberry dump [options] <file>
//	lingonberry version
//
// Dump Command:
//
//	Print an annotated tree of the values in a payload, one line per value,
//	with the byte offset and wire format of each.
//
//	Options:
//	  --hex           Treat the argument as a hex string instead of a file path
//	  --json          Print the decoded payload as JSON instead of a tree
//	  --max-depth n   Maximum nesting depth to descend (default 100)
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/blockberries/lingonberry/internal/wire"
	"github.com/blockberries/lingonberry/pkg/lingonberry"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dump", "d":
		cmdDump(os.Args[2:])
	case "version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Lingonberry Payload Inspector

Usage:
  lingonberry <command> [options] <file>

Commands:
  dump        Print an annotated tree of a binary payload
  version     Print version information
  help        Print this help message

Run 'lingonberry <command> -h' for command-specific help.`)
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	hexInput := fs.Bool("hex", false, "Treat the argument as a hex string instead of a file path")
	asJSON := fs.Bool("json", false, "Print the decoded payload as JSON instead of a tree")
	maxDepth := fs.Int("max-depth", 100, "Maximum nesting depth to descend")

	fs.Usage = func() {
		fmt.Println(`Usage: lingonberry dump [options] <file>

Print an annotated tree of the values in a Lingonberry payload.
With no file argument, or with "-", the payload is read from stdin.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	data, err := readInput(fs.Args(), *hexInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := lingonberry.DefaultOptions
	opts.Limits.MaxDepth = *maxDepth
	r := lingonberry.NewReaderWithOptions(data, opts)

	if *asJSON {
		err = dumpJSON(r)
	} else {
		err = dumpTree(r, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readInput resolves the dump argument to raw payload bytes.
func readInput(args []string, hexInput bool) ([]byte, error) {
	if hexInput {
		if len(args) == 0 {
			return nil, fmt.Errorf("no hex string given")
		}
		clean := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' {
				return -1
			}
			return r
		}, args[0])
		return hex.DecodeString(clean)
	}
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

// dumpJSON decodes the payload dynamically and prints it as indented JSON.
// Generic maps are re-keyed by string since JSON has no other key type.
func dumpJSON(r *lingonberry.Reader) error {
	v := r.ReadAny()
	r.ExpectEOF()
	if err := r.Err(); err != nil {
		return err
	}
	out, err := json.MarshalIndent(jsonify(v), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// jsonify rewrites decoded values into shapes encoding/json accepts.
func jsonify(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[fmt.Sprint(k)] = jsonify(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = jsonify(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = jsonify(e)
		}
		return out
	case []byte:
		return hex.EncodeToString(val)
	default:
		return v
	}
}

// dumpTree prints one line per value: offset, wire format name, and the value.
func dumpTree(r *lingonberry.Reader, w io.Writer) error {
	for !r.EOF() {
		if err := dumpValue(r, w, 0); err != nil {
			return err
		}
	}
	return r.Err()
}

func dumpValue(r *lingonberry.Reader, w io.Writer, indent int) error {
	pos := r.Pos()
	tag := r.PeekTag()
	if err := r.Err(); err != nil {
		return err
	}
	prefix := fmt.Sprintf("%06x  %s%-16s", pos, strings.Repeat("  ", indent), tag.Format.Name())

	switch tag.Format {
	case wire.FormatNil:
		r.ReadNil()
		fmt.Fprintf(w, "%s nil\n", prefix)
	case wire.FormatTrue, wire.FormatFalse:
		fmt.Fprintf(w, "%s %v\n", prefix, r.ReadBool())
	case wire.FormatPositiveFixInt, wire.FormatUint8, wire.FormatUint16, wire.FormatUint32, wire.FormatUint64:
		fmt.Fprintf(w, "%s %d\n", prefix, r.ReadUint64())
	case wire.FormatNegativeFixInt, wire.FormatInt8, wire.FormatInt16, wire.FormatInt32, wire.FormatInt64:
		fmt.Fprintf(w, "%s %d\n", prefix, r.ReadInt64())
	case wire.FormatFloat32:
		fmt.Fprintf(w, "%s %v\n", prefix, r.ReadFloat32())
	case wire.FormatFloat64:
		fmt.Fprintf(w, "%s %v\n", prefix, r.ReadFloat64())
	case wire.FormatFixStr, wire.FormatStr8, wire.FormatStr16, wire.FormatStr32:
		fmt.Fprintf(w, "%s %q\n", prefix, r.ReadString())
	case wire.FormatBin8, wire.FormatBin16, wire.FormatBin32:
		b := r.ReadBytes()
		fmt.Fprintf(w, "%s %d bytes: %s\n", prefix, len(b), hex.EncodeToString(b))
	case wire.FormatFixArray, wire.FormatArray16, wire.FormatArray32:
		it := r.ReadArray()
		fmt.Fprintf(w, "%s %d elements\n", prefix, it.Len())
		for it.Next() {
			if err := dumpValue(r, w, indent+1); err != nil {
				return err
			}
		}
	case wire.FormatFixMap, wire.FormatMap16, wire.FormatMap32:
		// A bare map is a struct body keyed by field names.
		it := r.ReadStruct()
		fmt.Fprintf(w, "%s struct, %d fields\n", prefix, it.Len())
		for it.Next() {
			fieldPos := r.Pos()
			name := r.ReadString()
			if err := r.Err(); err != nil {
				return err
			}
			fmt.Fprintf(w, "%06x  %sfield %q\n", fieldPos, strings.Repeat("  ", indent+1), name)
			if err := dumpValue(r, w, indent+2); err != nil {
				return err
			}
		}
	case wire.FormatExt8, wire.FormatExt16, wire.FormatExt32,
		wire.FormatFixExt1, wire.FormatFixExt2, wire.FormatFixExt4,
		wire.FormatFixExt8, wire.FormatFixExt16:
		it := r.ReadMap()
		fmt.Fprintf(w, "%s map, %d entries\n", prefix, it.Len())
		for it.Next() {
			if err := dumpValue(r, w, indent+1); err != nil {
				return err
			}
			if err := dumpValue(r, w, indent+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("reserved format byte 0xc1 at offset %d", pos)
	}
	return r.Err()
}

func cmdVersion() {
	fmt.Printf("lingonberry version %s\n", lingonberry.VersionInfo())
}
