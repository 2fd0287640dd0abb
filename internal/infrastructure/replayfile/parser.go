// Package replayfile extracts per-player core stats from Rocket League
// replay files by reading the property table in the replay header. Only the
// header is parsed; the network stream is never touched.
package replayfile

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/RSC-NA/rsc-core/internal/domain/replay"
)

const headerClassName = "TAGame.Replay_Soccar_TA"

// Parser reads replay headers. The zero value is ready to use.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(_ context.Context, fileName string, data []byte) (replay.Parsed, error) {
	props, err := readHeader(data)
	if err != nil {
		return replay.Parsed{}, fmt.Errorf("parse replay header %s: %w", fileName, err)
	}

	parsed := replay.Parsed{FileName: fileName}
	if mapName, ok := props["MapName"].(string); ok {
		parsed.MapCode = strings.TrimSpace(mapName)
	}

	rows, ok := props["PlayerStats"].([]map[string]any)
	if !ok {
		return replay.Parsed{}, fmt.Errorf("replay %s carries no player stats", fileName)
	}

	for _, row := range rows {
		name, _ := row["Name"].(string)
		team, _ := row["Team"].(int32)
		parsed.Players = append(parsed.Players, replay.PlayerStats{
			Name: strings.TrimSpace(name),
			Side: replay.Side(team),
			Core: replay.CoreStats{
				Score:   intProp(row, "Score"),
				Goals:   intProp(row, "Goals"),
				Assists: intProp(row, "Assists"),
				Saves:   intProp(row, "Saves"),
				Shots:   intProp(row, "Shots"),
			},
		})
	}

	if err := parsed.Validate(); err != nil {
		return replay.Parsed{}, fmt.Errorf("replay %s: %w", fileName, err)
	}

	return parsed, nil
}

func intProp(row map[string]any, key string) int {
	if value, ok := row[key].(int32); ok {
		return int(value)
	}
	return 0
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("truncated header: need %d bytes at offset %d", n, r.pos)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) uint32() (uint32, error) {
	raw, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

func (r *reader) int32() (int32, error) {
	value, err := r.uint32()
	return int32(value), err
}

func (r *reader) uint64() (uint64, error) {
	raw, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}

func (r *reader) byte() (byte, error) {
	raw, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return raw[0], nil
}

// string reads a length-prefixed string. Positive lengths are windows-1252,
// negative lengths are UTF-16; both include a trailing NUL.
func (r *reader) string() (string, error) {
	length, err := r.int32()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}

	if length > 0 {
		raw, err := r.bytes(int(length))
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(raw), "\x00"), nil
	}

	raw, err := r.bytes(int(-length) * 2)
	if err != nil {
		return "", err
	}
	runes := make([]rune, 0, -length)
	for i := 0; i+1 < len(raw); i += 2 {
		runes = append(runes, rune(binary.LittleEndian.Uint16(raw[i:])))
	}
	return strings.TrimRight(string(runes), "\x00"), nil
}

func readHeader(data []byte) (map[string]any, error) {
	r := &reader{data: data}

	headerLen, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if int(headerLen) > r.remaining() {
		return nil, fmt.Errorf("header length %d exceeds file size", headerLen)
	}
	if _, err := r.uint32(); err != nil { // crc
		return nil, err
	}

	major, err := r.uint32()
	if err != nil {
		return nil, err
	}
	minor, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if major >= 868 && minor >= 18 {
		if _, err := r.uint32(); err != nil { // net version
			return nil, err
		}
	}

	className, err := r.string()
	if err != nil {
		return nil, err
	}
	if className != headerClassName {
		return nil, fmt.Errorf("unexpected replay class %q", className)
	}

	return readPropertyDict(r)
}

func readPropertyDict(r *reader) (map[string]any, error) {
	props := map[string]any{}
	for {
		name, err := r.string()
		if err != nil {
			return nil, err
		}
		if name == "None" {
			return props, nil
		}

		value, err := readProperty(r)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props[name] = value
	}
}

func readProperty(r *reader) (any, error) {
	propType, err := r.string()
	if err != nil {
		return nil, err
	}
	if _, err := r.uint64(); err != nil { // declared value size, not trusted
		return nil, err
	}

	switch propType {
	case "IntProperty":
		return r.int32()
	case "StrProperty", "NameProperty":
		return r.string()
	case "FloatProperty":
		value, err := r.uint32()
		return value, err
	case "BoolProperty":
		value, err := r.byte()
		return value != 0, err
	case "QWordProperty":
		return r.uint64()
	case "ByteProperty":
		if _, err := r.string(); err != nil {
			return nil, err
		}
		return r.string()
	case "ArrayProperty":
		count, err := r.int32()
		if err != nil {
			return nil, err
		}
		if count < 0 || count > 1<<16 {
			return nil, fmt.Errorf("implausible array length %d", count)
		}
		out := make([]map[string]any, 0, count)
		for i := int32(0); i < count; i++ {
			dict, err := readPropertyDict(r)
			if err != nil {
				return nil, err
			}
			out = append(out, dict)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported property type %q", propType)
	}
}
