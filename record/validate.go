package record

import (
	"log/slog"
	"net/netip"
	"strings"

	"go4.org/netipx"

	"project/customer-loader/netaddr"
)

// Options configures the validation pass.
type Options struct {
	// ServiceTags maps a row's service code to the tag attached to the
	// record. Unrecognized codes are logged and dropped, the row is kept.
	ServiceTags map[string]string
}

// Validate cleans a batch of raw rows: fields are trimmed, IP and subnet mask
// are validated, the object name is derived, and later rows whose object name
// was already seen are dropped (first occurrence wins). Rows failing
// validation are logged and skipped, never fatal. Input order is preserved.
func Validate(rows []Raw, opts Options, logger *slog.Logger) []Customer {
	seen := make(map[string]struct{}, len(rows))
	out := make([]Customer, 0, len(rows))

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		ip := strings.TrimSpace(row.IP)
		mask := strings.TrimSpace(row.Mask)

		if name == "" {
			logger.Warn("skipping row: empty customer name", "line", row.Line)
			continue
		}
		addr, err := netaddr.ParseIP(ip)
		if err != nil {
			logger.Warn("skipping row: invalid IP address", "line", row.Line, "customer", name, "err", err.Error())
			continue
		}
		cidr, err := netaddr.MaskToCIDR(mask)
		if err != nil {
			logger.Warn("skipping row: invalid subnet mask", "line", row.Line, "customer", name, "err", err.Error())
			continue
		}

		objectName, err := netaddr.ObjectName(name, ip, mask)
		if err != nil {
			logger.Warn("skipping row: cannot derive object name", "line", row.Line, "customer", name, "err", err.Error())
			continue
		}
		if _, dup := seen[objectName]; dup {
			logger.Warn("duplicate object name, keeping first occurrence", "line", row.Line, "object_name", objectName)
			continue
		}
		seen[objectName] = struct{}{}

		tags, rejected := netaddr.ParseTags(row.Tags)
		for _, tok := range rejected {
			logger.Warn("dropping invalid tag", "line", row.Line, "customer", name, "tag", tok)
		}
		if svc := strings.TrimSpace(row.Service); svc != "" {
			if tag, ok := opts.ServiceTags[svc]; ok {
				tags = append(tags, tag)
			} else {
				logger.Warn("unrecognized service code, no tag attached", "line", row.Line, "customer", name, "service", svc)
			}
		}

		warnEdgeAddress(logger, name, addr, cidr)

		out = append(out, Customer{
			CustomerName:      name,
			CustomerIPAddress: ip,
			IPSubnetMask:      mask,
			Tags:              tags,
			ObjectName:        objectName,
		})
	}
	return out
}

// warnEdgeAddress flags a customer address that is the network or broadcast
// address of its own (ip, mask) prefix. Diagnostic only, the record is kept.
// /31 point-to-point links treat both addresses as usable.
func warnEdgeAddress(logger *slog.Logger, name string, addr netip.Addr, cidr int) {
	if cidr >= 31 {
		return
	}
	r := netipx.RangeOfPrefix(netip.PrefixFrom(addr, cidr).Masked())
	if r.From() == addr || r.To() == addr {
		logger.Warn("customer address is the network or broadcast address of its subnet",
			"customer", name, "ip", addr.String(), "cidr", cidr)
	}
}
