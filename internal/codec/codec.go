// Package codec converts catalog, user and order records to and from the
// comma-delimited text lines stored in the data files.
//
// Field values are written verbatim: a value containing a comma or a line
// break cannot be read back. Callers are expected to reject such values
// before they reach the codec.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/abgdnv/glowcart/internal/catalog"
	perrors "github.com/abgdnv/glowcart/internal/errors"
	"github.com/abgdnv/glowcart/internal/orders"
	"github.com/abgdnv/glowcart/internal/users"
)

const (
	delimiter = ","

	userFields        = 3
	productFields     = 8
	orderHeaderFields = 4

	staffFlag    = "1"
	customerFlag = "0"
)

// maxLineSize bounds a single record line read by the scanners.
const maxLineSize = 1 << 20

// EncodeUser renders u as a newline-terminated line: username,password,isStaff.
func EncodeUser(u users.User) string {
	flag := customerFlag
	if u.IsStaff {
		flag = staffFlag
	}
	return strings.Join([]string{u.Username, u.Password, flag}, delimiter) + "\n"
}

// DecodeUser parses a line produced by EncodeUser.
// Any staff flag other than "1" decodes as a customer.
func DecodeUser(line string) (users.User, error) {
	fields, err := split(line, userFields)
	if err != nil {
		return users.User{}, fmt.Errorf("user: %w", err)
	}
	if fields[2] == "" {
		return users.User{}, fmt.Errorf("user: %w: empty staff flag", perrors.ErrMalformedRecord)
	}
	return users.User{
		Username: fields[0],
		Password: fields[1],
		IsStaff:  fields[2] == staffFlag,
	}, nil
}

// EncodeProduct renders p as a newline-terminated line:
// code,name,category,subCategory,skinType,range,price,quantity.
func EncodeProduct(p catalog.Product) string {
	return strings.Join([]string{
		strconv.Itoa(p.Code),
		p.Name,
		p.Category,
		p.SubCategory,
		p.SkinType,
		p.Range,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.Itoa(p.Quantity),
	}, delimiter) + "\n"
}

// DecodeProduct parses a line produced by EncodeProduct.
func DecodeProduct(line string) (catalog.Product, error) {
	fields, err := split(line, productFields)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("product: %w", err)
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return catalog.Product{}, fmt.Errorf("product: %w: code %q", perrors.ErrMalformedRecord, fields[0])
	}
	price, err := strconv.ParseFloat(fields[6], 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return catalog.Product{}, fmt.Errorf("product %d: %w: price %q", code, perrors.ErrMalformedRecord, fields[6])
	}
	quantity, err := strconv.Atoi(fields[7])
	if err != nil || quantity < 0 {
		return catalog.Product{}, fmt.Errorf("product %d: %w: quantity %q", code, perrors.ErrMalformedRecord, fields[7])
	}
	return catalog.Product{
		Code:        code,
		Name:        fields[1],
		Category:    fields[2],
		SubCategory: fields[3],
		SkinType:    fields[4],
		Range:       fields[5],
		Price:       price,
		Quantity:    quantity,
	}, nil
}

// EncodeOrder renders o as a header line followed by one product line per item.
func EncodeOrder(o orders.Order) string {
	var b strings.Builder
	b.WriteString(strings.Join([]string{o.CustomerName, o.Address, o.Contact, o.Email}, delimiter))
	b.WriteString("\n")
	for _, p := range o.Products {
		b.WriteString(EncodeProduct(p))
	}
	return b.String()
}

// DecodeOrders reads consecutive order blocks from r. A line with four fields
// starts a new order, a line with eight fields is a product of the current
// order. Lines that fit neither shape are skipped and reported; decoding
// carries on with the next line. A read failure ends decoding and is
// reported as the last error.
func DecodeOrders(r io.Reader) ([]orders.Order, []error) {
	var (
		out     []orders.Order
		errs    []error
		current *orders.Order
	)
	flush := func() {
		if current != nil {
			out = append(out, *current)
			current = nil
		}
	}

	err := ScanLines(r, func(lineNo int, line string) {
		switch strings.Count(line, delimiter) + 1 {
		case orderHeaderFields:
			flush()
			fields := strings.Split(line, delimiter)
			current = &orders.Order{
				CustomerName: fields[0],
				Address:      fields[1],
				Contact:      fields[2],
				Email:        fields[3],
				Products:     []catalog.Product{},
			}
		case productFields:
			if current == nil {
				errs = append(errs, fmt.Errorf("line %d: order: %w: product line without header", lineNo, perrors.ErrMalformedRecord))
				return
			}
			p, err := DecodeProduct(line)
			if err != nil {
				errs = append(errs, fmt.Errorf("line %d: order line: %w", lineNo, err))
				return
			}
			current.Products = append(current.Products, p)
		default:
			errs = append(errs, fmt.Errorf("line %d: order: %w: unexpected field count %d", lineNo, perrors.ErrMalformedRecord, strings.Count(line, delimiter)+1))
		}
	})
	flush()
	if err != nil {
		errs = append(errs, err)
	}
	return out, errs
}

// ScanLines calls fn for every non-blank line of r with its 1-based line number.
// Trailing carriage returns are stripped.
func ScanLines(r io.Reader, fn func(lineNo int, line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(lineNo, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading line %d: %w", lineNo+1, err)
	}
	return nil
}

// split cuts a single record line into exactly n fields.
func split(line string, n int) ([]string, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, delimiter)
	if len(fields) != n {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", perrors.ErrMalformedRecord, n, len(fields))
	}
	return fields, nil
}
