// Package session drives one interactive run as an explicit state machine:
// Ingest -> Validate -> Review -> Confirm -> Persist. Review allows editing
// and deleting records with a one-level undo; Confirm gates the single write
// of the output document. Operator input and output are injected so tests can
// script a whole run.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"project/customer-loader/config"
	"project/customer-loader/dns"
	"project/customer-loader/formatter"
	"project/customer-loader/ingest"
	"project/customer-loader/netaddr"
	"project/customer-loader/record"
)

// State identifies a step of the run.
type State int

const (
	StateIngest State = iota
	StateValidate
	StateReview
	StateConfirm
	StatePersist
	StateDone
)

// Session holds the working set of one run.
type Session struct {
	in       *bufio.Scanner
	out      io.Writer
	cfg      *config.Config
	logger   *slog.Logger
	resolver *dns.Resolver

	rows      []record.Raw
	customers []record.Customer
}

// New builds a session reading operator input from in and writing prompts to
// out. The hostname resolver is only wired up when the config enables it.
func New(in io.Reader, out io.Writer, cfg *config.Config, logger *slog.Logger) *Session {
	s := &Session{
		in:     bufio.NewScanner(in),
		out:    out,
		cfg:    cfg,
		logger: logger,
	}
	if cfg.ResolveHostnames {
		s.resolver = dns.NewResolver(cfg.DNSServer)
	}
	return s
}

// Run executes the state machine until the run completes. Exhausted input
// (EOF) ends the run without saving.
func (s *Session) Run() error {
	state := StateIngest
	for state != StateDone {
		var err error
		switch state {
		case StateIngest:
			state = s.ingestState()
		case StateValidate:
			state = s.validateState()
		case StateReview:
			state = s.reviewState()
		case StateConfirm:
			state = s.confirmState()
		case StatePersist:
			state, err = s.persistState()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) ingestState() State {
	for {
		fmt.Fprintln(s.out, "Please choose an input method:")
		fmt.Fprintln(s.out, "  1. File input (CSV/Excel)")
		fmt.Fprintln(s.out, "  2. Manual input")
		choice, ok := s.promptLine("Enter your choice (1 or 2): ")
		if !ok {
			return StateDone
		}
		switch choice {
		case "1":
			rows, ok := s.ingestFile()
			if !ok {
				return StateDone
			}
			s.rows = rows
			return StateValidate
		case "2":
			s.rows = s.collectManual()
			return StateValidate
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please enter 1 or 2.")
		}
	}
}

// ingestFile prompts for a file path until a file is read successfully or the
// operator switches to manual entry. A missing file offers manual fallback;
// unreadable or unsupported files re-prompt.
func (s *Session) ingestFile() ([]record.Raw, bool) {
	for {
		path, ok := s.promptLine("Enter the path to the Excel or CSV file: ")
		if !ok {
			return nil, false
		}
		rows, err := ingest.Read(path, ingest.Options{HasHeader: !s.cfg.HeaderlessInput}, s.logger)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(s.out, "File not found.")
				if s.promptYes("Would you like to enter the data manually instead? (y/n): ") {
					return s.collectManual(), true
				}
				continue
			}
			s.logger.Warn("file ingestion failed", "path", path, "err", err.Error())
			fmt.Fprintf(s.out, "%v\n", err)
			continue
		}
		s.logger.Info("file ingested", "path", path, "rows", len(rows))
		if s.resolver != nil {
			dns.ResolveRows(rows, s.resolver, s.logger)
		}
		return rows, true
	}
}

// collectManual loops over customer prompts until the operator types 'done'.
// IP and mask prompts repeat until the value validates; invalid tags are
// reported and dropped.
func (s *Session) collectManual() []record.Raw {
	fmt.Fprintln(s.out, "\nEntering manual input mode. Enter customer details. Type 'done' when finished.")

	var rows []record.Raw
	for {
		name, ok := s.promptLine("\nEnter Customer Name (or type 'done' to finish): ")
		if !ok || strings.EqualFold(name, "done") {
			break
		}
		if name == "" {
			fmt.Fprintln(s.out, "Customer name cannot be empty.")
			continue
		}

		ip, ok := s.promptIP("Enter Customer IP Address: ")
		if !ok {
			break
		}
		mask, ok := s.promptMask("Enter IP Subnet Mask (e.g., 255.255.255.0 or /24): ")
		if !ok {
			break
		}
		tags, ok := s.promptLine("Enter Tags (comma-separated, or leave blank for none): ")
		if !ok {
			break
		}
		valid := s.reportTags(tags)

		rows = append(rows, record.Raw{
			Name: name,
			IP:   ip,
			Mask: mask,
			Tags: strings.Join(valid, ","),
			Line: len(rows) + 1,
		})
	}
	return rows
}

func (s *Session) validateState() State {
	fmt.Fprintln(s.out, "\nValidating customer data...")
	s.customers = record.Validate(s.rows, record.Options{ServiceTags: s.cfg.ServiceTags}, s.logger)
	fmt.Fprintf(s.out, "%d of %d records passed validation.\n", len(s.customers), len(s.rows))
	if len(s.customers) == 0 {
		fmt.Fprintln(s.out, "No valid customer records to save.")
		return StateDone
	}
	return StateReview
}

// reviewState walks the validated records. Deleting a record keeps the cursor
// in place so the next record is shown; undoing a deletion re-shows the
// restored record.
func (s *Session) reviewState() State {
	fmt.Fprintln(s.out, "\nPreviewing customer data...")

	i := 0
	for i < len(s.customers) {
		fmt.Fprintf(s.out, "\nCustomer %d:\n", i+1)
		printCustomer(s.out, s.customers[i])

		action, ok := s.promptLine("\nDo you want to edit or delete this customer? (e = edit, d = delete, n = next): ")
		if !ok {
			break
		}
		switch strings.ToLower(action) {
		case "e":
			s.edit(i)
		case "d":
			if !s.promptYes("Are you sure you want to delete this customer? (y/n): ") {
				break
			}
			deleted := s.customers[i]
			s.customers = slices.Delete(s.customers, i, i+1)
			fmt.Fprintln(s.out, "Customer deleted.")
			s.logger.Info("record deleted", "object_name", deleted.ObjectName)
			if s.promptYes("Do you want to undo this deletion? (y/n): ") {
				s.customers = slices.Insert(s.customers, i, deleted)
				fmt.Fprintln(s.out, "Deletion undone.")
				s.logger.Info("deletion undone", "object_name", deleted.ObjectName)
			}
			continue
		}
		i++
	}

	if len(s.customers) == 0 {
		fmt.Fprintln(s.out, "No customer records left to save.")
		return StateDone
	}
	return StateConfirm
}

// edit overwrites individual fields of the record at index i; blank input
// keeps the current value. Edited IP and mask re-prompt until valid, and the
// object name is recomputed from the final field values.
func (s *Session) edit(i int) {
	c := &s.customers[i]

	if name, ok := s.promptLine("Enter new Customer Name (leave blank to keep current): "); ok && name != "" {
		c.CustomerName = name
	}

	for {
		ip, ok := s.promptLine("Enter new Customer IP Address (leave blank to keep current): ")
		if !ok || ip == "" {
			break
		}
		if netaddr.ValidIP(ip) {
			c.CustomerIPAddress = ip
			break
		}
		fmt.Fprintf(s.out, "Invalid IP address: %s. Please enter a valid IPv4 address.\n", ip)
	}

	for {
		mask, ok := s.promptLine("Enter new IP Subnet Mask (leave blank to keep current): ")
		if !ok || mask == "" {
			break
		}
		if netaddr.ValidMask(mask) {
			c.IPSubnetMask = mask
			break
		}
		fmt.Fprintf(s.out, "Invalid subnet mask: %s. Please enter a valid subnet mask (e.g., 255.255.255.0 or /24).\n", mask)
	}

	if tags, ok := s.promptLine("Enter new Tags (comma-separated, leave blank to keep current): "); ok && tags != "" {
		c.Tags = s.reportTags(tags)
	}

	// Fields are validated above, so the recompute cannot fail.
	objectName, err := netaddr.ObjectName(c.CustomerName, c.CustomerIPAddress, c.IPSubnetMask)
	if err != nil {
		s.logger.Error("object name recompute failed", "customer", c.CustomerName, "err", err.Error())
		return
	}
	if objectName != c.ObjectName {
		s.logger.Info("record edited", "object_name", objectName, "was", c.ObjectName)
		c.ObjectName = objectName
	}
}

func (s *Session) confirmState() State {
	fmt.Fprintln(s.out, "\nThe following data will be saved:")
	for _, c := range s.customers {
		fmt.Fprintln(s.out)
		printCustomer(s.out, c)
	}
	if !s.promptYes("\nDo you want to proceed with saving the data? (y/n): ") {
		fmt.Fprintln(s.out, "Save operation cancelled.")
		s.logger.Info("save cancelled by operator")
		return StateDone
	}
	return StatePersist
}

func (s *Session) persistState() (State, error) {
	path := s.cfg.OutputFile
	if s.cfg.TimestampOutput {
		path = formatter.TimestampedPath(path, time.Now())
	}
	if err := formatter.Save(path, s.customers); err != nil {
		return StateDone, err
	}
	s.logger.Info("customer data saved", "path", path, "records", len(s.customers))
	fmt.Fprintf(s.out, "\nCustomer data successfully saved to %s.\n", path)
	return StateDone, nil
}

// promptLine writes msg and returns the next trimmed input line. ok is false
// once input is exhausted.
func (s *Session) promptLine(msg string) (string, bool) {
	fmt.Fprint(s.out, msg)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) promptYes(msg string) bool {
	line, ok := s.promptLine(msg)
	return ok && strings.EqualFold(line, "y")
}

func (s *Session) promptIP(msg string) (string, bool) {
	for {
		ip, ok := s.promptLine(msg)
		if !ok {
			return "", false
		}
		if netaddr.ValidIP(ip) {
			return ip, true
		}
		fmt.Fprintf(s.out, "Invalid IP address: %s. Please enter a valid IPv4 address.\n", ip)
		msg = "Please enter a valid Customer IP Address: "
	}
}

func (s *Session) promptMask(msg string) (string, bool) {
	for {
		mask, ok := s.promptLine(msg)
		if !ok {
			return "", false
		}
		if netaddr.ValidMask(mask) {
			return mask, true
		}
		fmt.Fprintf(s.out, "Invalid subnet mask: %s. Please enter a valid subnet mask (e.g., 255.255.255.0 or /24).\n", mask)
		msg = "Please enter a valid IP Subnet Mask (e.g., 255.255.255.0 or /24): "
	}
}

// reportTags parses a tag string and echoes rejected tokens to the operator.
func (s *Session) reportTags(tags string) []string {
	valid, rejected := netaddr.ParseTags(tags)
	for _, tok := range rejected {
		fmt.Fprintf(s.out, "Invalid tag: %s. Only alphanumeric characters, underscores, and dashes are allowed with no spaces.\n", tok)
	}
	return valid
}

func printCustomer(w io.Writer, c record.Customer) {
	fmt.Fprintf(w, "  CustomerName: %s\n", c.CustomerName)
	fmt.Fprintf(w, "  CustomerIPAddress: %s\n", c.CustomerIPAddress)
	fmt.Fprintf(w, "  IPSubnetMask: %s\n", c.IPSubnetMask)
	fmt.Fprintf(w, "  Tags: %s\n", strings.Join(c.Tags, ", "))
	fmt.Fprintf(w, "  ObjectName: %s\n", c.ObjectName)
}
