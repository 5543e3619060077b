// Package netaddr holds the pure address math shared by ingestion and the
// interactive session: subnet mask / CIDR prefix conversion, IPv4 and mask
// validation, tag parsing, and the derived object-name format.
package netaddr

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel errors for field-level validation failures. Callers wrap them with
// fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrInvalidAddress = fmt.Errorf("invalid IP address")
	ErrInvalidSubnet  = fmt.Errorf("invalid subnet mask")
	ErrInvalidCIDR    = fmt.Errorf("invalid CIDR prefix")
)

// tagPattern accepts ASCII alphanumerics, underscores and dashes, no spaces.
var tagPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// MaskToCIDR converts a subnet mask in either notation to a prefix length.
// A leading slash selects CIDR form ("/24"); anything else is parsed as a
// dotted-decimal mask ("255.255.255.0"), which must be contiguous.
func MaskToCIDR(mask string) (int, error) {
	mask = strings.TrimSpace(mask)
	if strings.HasPrefix(mask, "/") {
		cidr, err := strconv.Atoi(strings.TrimPrefix(mask, "/"))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCIDR, mask)
		}
		if cidr < 0 || cidr > 32 {
			return 0, fmt.Errorf("%w: /%d out of range, must be between /0 and /32", ErrInvalidCIDR, cidr)
		}
		return cidr, nil
	}

	addr, err := netip.ParseAddr(mask)
	if err != nil || !addr.Is4() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubnet, mask)
	}
	b := addr.As4()
	v := binary.BigEndian.Uint32(b[:])
	ones := bits.OnesCount32(v)
	if v != maskBits(ones) {
		return 0, fmt.Errorf("%w: %q is not contiguous", ErrInvalidSubnet, mask)
	}
	return ones, nil
}

// CIDRToMask is the inverse of MaskToCIDR, returning the dotted-decimal form.
func CIDRToMask(cidr int) (string, error) {
	if cidr < 0 || cidr > 32 {
		return "", fmt.Errorf("%w: /%d out of range, must be between /0 and /32", ErrInvalidCIDR, cidr)
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], maskBits(cidr))
	return netip.AddrFrom4(b).String(), nil
}

// ObjectName derives the canonical identifier "{name}_{ip}_{cidr}" for a
// customer record. Underscores inside name or ip are not escaped, so distinct
// inputs can format identically; the validator treats such collisions as
// duplicates.
func ObjectName(name, ip, mask string) (string, error) {
	cidr, err := MaskToCIDR(mask)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%d", name, ip, cidr), nil
}

// ParseIP parses a dotted-decimal IPv4 address: four octets 0-255, nothing
// else.
func ParseIP(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return addr, nil
}

// ValidIP reports whether s is accepted by ParseIP.
func ValidIP(s string) bool {
	_, err := ParseIP(s)
	return err == nil
}

// ValidMask reports whether s is accepted by MaskToCIDR.
func ValidMask(s string) bool {
	_, err := MaskToCIDR(s)
	return err == nil
}

// ParseTags splits a comma-separated tag string, trims each token and keeps
// the ones matching tagPattern. Rejected tokens are returned separately so
// callers can report them; they are never fatal. Order is preserved and
// exact-string duplicates are not collapsed.
func ParseTags(s string) (valid, rejected []string) {
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if tagPattern.MatchString(tok) {
			valid = append(valid, tok)
		} else {
			rejected = append(rejected, tok)
		}
	}
	return valid, rejected
}

// maskBits returns the 32-bit mask value with the given number of leading
// one-bits. Shift counts >= 32 yield zero, covering the /0 case.
func maskBits(ones int) uint32 {
	return ^uint32(0) << (32 - ones)
}
