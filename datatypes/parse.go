package datatypes

import (
	"fmt"
	"strconv"
)

// Parse converts the canonical string form produced by DataType.String
// back into a DataType, e.g. "int64", "!string", "decimal(15, 2)",
// "array<map<string, int64>>", "timestamp('UTC')".
func Parse(s string) (DataType, error) {
	p := typeParser{input: s}
	t, err := p.parseType()
	if err == nil {
		p.skipSpace()
		if p.pos != len(p.input) {
			err = fmt.Errorf("trailing input at offset %d", p.pos)
		}
	}
	if err != nil {
		return DataType{}, fmt.Errorf("%w: parse type %q: %s", ErrInput, s, err)
	}
	return t, nil
}

// MustParse is Parse that panics on malformed input, for declarations
// and tests with fixed type strings.
func MustParse(s string) DataType {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

var kindNames = map[string]Kind{
	"null": KindNull, "boolean": KindBoolean,
	"int8": KindInt8, "int16": KindInt16, "int32": KindInt32, "int64": KindInt64,
	"uint8": KindUInt8, "uint16": KindUInt16, "uint32": KindUInt32, "uint64": KindUInt64,
	"float32": KindFloat32, "float64": KindFloat64,
	"decimal": KindDecimal, "string": KindString, "binary": KindBinary,
	"date": KindDate, "time": KindTime, "timestamp": KindTimestamp, "interval": KindInterval,
	"array": KindArray, "map": KindMap, "struct": KindStruct,
	"uuid": KindUUID, "geometry": KindGeometry, "geography": KindGeography,
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) parseType() (DataType, error) {
	p.skipSpace()
	nonNullable := p.eat('!')
	name := p.ident()
	if name == "" {
		return DataType{}, fmt.Errorf("expected a type name at offset %d", p.pos)
	}
	kind, known := kindNames[name]
	if !known {
		return DataType{}, fmt.Errorf("unknown type %q", name)
	}
	t, err := p.parseParams(kind)
	if err != nil {
		return DataType{}, err
	}
	if nonNullable {
		t = t.NonNullable()
	}
	return t, nil
}

func (p *typeParser) parseParams(kind Kind) (DataType, error) {
	switch kind {
	case KindDecimal:
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		precision, err := p.integer()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(','); err != nil {
			return DataType{}, err
		}
		scale, err := p.integer()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return Decimal(precision, scale), nil
	case KindTimestamp:
		if !p.peek('(') {
			return Timestamp, nil
		}
		p.eat('(')
		zone, err := p.quoted()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		return TimestampWithZone(zone), nil
	case KindInterval:
		if err := p.expect('('); err != nil {
			return DataType{}, err
		}
		unit, err := p.quoted()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(')'); err != nil {
			return DataType{}, err
		}
		if !IntervalUnit(unit).Valid() {
			return DataType{}, fmt.Errorf("unknown interval unit %q", unit)
		}
		return Interval(IntervalUnit(unit)), nil
	case KindGeometry, KindGeography:
		srid := 0
		if p.peek('(') {
			p.eat('(')
			parsed, err := p.integer()
			if err != nil {
				return DataType{}, err
			}
			if err := p.expect(')'); err != nil {
				return DataType{}, err
			}
			srid = parsed
		}
		if kind == KindGeometry {
			return GeometryWithSRID(srid), nil
		}
		return GeographyWithSRID(srid), nil
	case KindArray:
		if err := p.expect('<'); err != nil {
			return DataType{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect('>'); err != nil {
			return DataType{}, err
		}
		return ArrayOf(elem), nil
	case KindMap:
		if err := p.expect('<'); err != nil {
			return DataType{}, err
		}
		key, err := p.parseType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect(','); err != nil {
			return DataType{}, err
		}
		value, err := p.parseType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expect('>'); err != nil {
			return DataType{}, err
		}
		return MapOf(key, value), nil
	case KindStruct:
		if err := p.expect('<'); err != nil {
			return DataType{}, err
		}
		var fields []StructField
		for {
			p.skipSpace()
			name := p.ident()
			if name == "" {
				return DataType{}, fmt.Errorf("expected a field name at offset %d", p.pos)
			}
			if err := p.expect(':'); err != nil {
				return DataType{}, err
			}
			fieldType, err := p.parseType()
			if err != nil {
				return DataType{}, err
			}
			fields = append(fields, StructField{Name: name, Type: fieldType})
			p.skipSpace()
			if p.eat(',') {
				continue
			}
			break
		}
		if err := p.expect('>'); err != nil {
			return DataType{}, err
		}
		return StructOf(fields...), nil
	default:
		return DataType{Kind: kind, Nullable: true}, nil
	}
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) eat(ch byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) peek(ch byte) bool {
	p.skipSpace()
	return p.pos < len(p.input) && p.input[p.pos] == ch
}

func (p *typeParser) expect(ch byte) error {
	p.skipSpace()
	if !p.eat(ch) {
		return fmt.Errorf("expected %q at offset %d", string(ch), p.pos)
	}
	return nil
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *typeParser) quoted() (string, error) {
	p.skipSpace()
	if !p.eat('\'') {
		return "", fmt.Errorf("expected a quoted value at offset %d", p.pos)
	}
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != '\'' {
		p.pos++
	}
	if !p.eat('\'') {
		return "", fmt.Errorf("unterminated quote at offset %d", start)
	}
	return p.input[start : p.pos-1], nil
}

func (p *typeParser) integer() (int, error) {
	p.skipSpace()
	start := p.pos
	if p.pos < len(p.input) && p.input[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected an integer at offset %d", p.pos)
	}
	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return 0, fmt.Errorf("invalid integer at offset %d: %s", start, err)
	}
	return n, nil
}
