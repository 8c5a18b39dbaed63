// Package interactive provides the interactive command-line interface
// for homevault.
package interactive

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/homevault-project/homevault-go/pkg/export"
	"github.com/homevault-project/homevault-go/pkg/inventory"
	"github.com/homevault-project/homevault-go/pkg/model"
	"github.com/homevault-project/homevault-go/pkg/scanner"
	"github.com/homevault-project/homevault-go/pkg/vault"
)

// Shell handles interactive mode for homevault.
type Shell struct {
	scan        *scanner.Scanner
	vault       *vault.Vault
	accessories *inventory.Inventory
	rl          *readline.Instance

	// Index caches so commands can address entries by list position.
	lastDevices []model.DiscoveredDevice
	lastCodes   []model.SetupCodeRecord
	lastList    []model.AccessoryRecord
}

// New creates a new interactive shell.
func New(scan *scanner.Scanner, v *vault.Vault, accessories *inventory.Inventory) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "homevault> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := &Shell{
		scan:        scan,
		vault:       v,
		accessories: accessories,
		rl:          rl,
	}

	// Display scan progress above the prompt
	scan.OnEvent(s.handleScanEvent)

	return s, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "scan":
			s.cmdScan()

		case "stop":
			s.cmdStop()

		case "devices", "d":
			s.cmdDevices()

		case "promote":
			s.cmdPromote(args)

		case "list", "l":
			s.cmdList()

		case "groups", "g":
			s.cmdGroups(args)

		case "remove", "rm":
			s.cmdRemove(args)

		case "codes", "c":
			s.cmdCodes()

		case "code":
			s.cmdCode(args)

		case "photo":
			s.cmdPhoto(args)

		case "search", "s":
			s.cmdSearch(args)

		case "export":
			s.cmdExport(args)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
HomeVault Commands:
  Discovery:
    scan               - Start a network scan (stops after 30s)
    stop               - Stop the running scan
    devices            - List devices found by the current/last scan
    promote <n>        - Add discovered device <n> to the inventory

  Inventory:
    list               - List inventory accessories
    groups [attr]      - Group accessories by room, manufacturer, category, or home
    remove <n>         - Remove accessory <n> from the inventory

  Setup Codes:
    codes              - List stored setup codes
    code add <code> <name...>  - Store a setup code for an accessory
    code rm <n>        - Delete stored code <n> (and its photo)
    photo <n> <path>   - Attach a photo to stored code <n>
    search <text>      - Search codes by name, manufacturer, model, or digits

  Export:
    export csv <path>  - Export inventory and codes as CSV
    export json <path> - Export inventory and codes as JSON
    export text <path> - Export a human-readable report

  General:
    status             - Show scanner and store status
    help               - Show this help
    quit               - Exit`)
}

// cmdScan starts a scan session.
func (s *Shell) cmdScan() {
	if s.scan.IsScanning() {
		fmt.Fprintln(s.rl.Stdout(), "Scan already running")
		return
	}
	s.scan.StartScan()
	fmt.Fprintln(s.rl.Stdout(), "Scanning...")
}

// cmdStop stops the scan session.
func (s *Shell) cmdStop() {
	if !s.scan.IsScanning() {
		fmt.Fprintln(s.rl.Stdout(), "No scan running")
		return
	}
	s.scan.StopScan()
}

// cmdDevices lists the devices of the current or last scan session.
func (s *Shell) cmdDevices() {
	s.lastDevices = s.scan.Devices()
	if len(s.lastDevices) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No devices discovered (try 'scan')")
		return
	}

	fmt.Fprintf(s.rl.Stdout(), "\nDiscovered Devices (%d):\n", len(s.lastDevices))
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	for i, d := range s.lastDevices {
		fmt.Fprintf(s.rl.Stdout(), "%3d. %s\n", i+1, d.Name)
		fmt.Fprintf(s.rl.Stdout(), "     Type: %s\n", d.ServiceTypeTag.Label())
		if d.Manufacturer != "" {
			fmt.Fprintf(s.rl.Stdout(), "     Manufacturer: %s\n", d.Manufacturer)
		}
		if d.IPAddress != "" {
			fmt.Fprintf(s.rl.Stdout(), "     Endpoint: %s:%d\n", d.IPAddress, d.Port)
		}
		if d.Paired() {
			fmt.Fprintln(s.rl.Stdout(), "     Paired: yes")
		}
	}
	fmt.Fprintln(s.rl.Stdout())
}

// cmdPromote adds a discovered device to the inventory.
func (s *Shell) cmdPromote(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: promote <n>")
		fmt.Fprintln(s.rl.Stdout(), "  Use 'devices' to list device numbers")
		return
	}

	device, ok := s.deviceByIndex(args[0])
	if !ok {
		return
	}

	saved, err := s.accessories.Promote(device)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to promote: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Added %q to inventory\n", saved.Name)
}

// cmdList lists the inventory.
func (s *Shell) cmdList() {
	s.lastList = s.accessories.All()
	if len(s.lastList) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Inventory is empty")
		return
	}

	fmt.Fprintf(s.rl.Stdout(), "\nAccessories (%d):\n", len(s.lastList))
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	for i, a := range s.lastList {
		fmt.Fprintf(s.rl.Stdout(), "%3d. %s\n", i+1, a.Name)
		s.printField("Manufacturer", a.Manufacturer)
		s.printField("Model", a.Model)
		s.printField("Room", a.Room)
		s.printField("Home", a.Home)
		s.printField("Category", a.Category)
		if !a.LastSeen.IsZero() {
			s.printField("Last seen", a.LastSeen.Format("2006-01-02 15:04"))
		}
	}
	fmt.Fprintln(s.rl.Stdout())
}

// cmdGroups shows the inventory grouped by an attribute.
func (s *Shell) cmdGroups(args []string) {
	attr := inventory.GroupByRoom
	if len(args) > 0 {
		parsed, err := inventory.ParseGroupAttr(args[0])
		if err != nil {
			fmt.Fprintf(s.rl.Stdout(), "%v (use room, manufacturer, category, or home)\n", err)
			return
		}
		attr = parsed
	}

	groups := s.accessories.GroupBy(attr)
	if len(groups) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Inventory is empty")
		return
	}

	for _, g := range groups {
		fmt.Fprintf(s.rl.Stdout(), "\n%s (%d):\n", g.Key, len(g.Records))
		for _, a := range g.Records {
			fmt.Fprintf(s.rl.Stdout(), "  %s\n", a.Name)
		}
	}
	fmt.Fprintln(s.rl.Stdout())
}

// cmdRemove removes an accessory from the inventory.
func (s *Shell) cmdRemove(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: remove <n>")
		fmt.Fprintln(s.rl.Stdout(), "  Use 'list' to list accessory numbers")
		return
	}

	acc, ok := s.accessoryByIndex(args[0])
	if !ok {
		return
	}

	if err := s.accessories.Remove(acc.ID); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to remove: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Removed %q\n", acc.Name)
}

// cmdCodes lists the stored setup codes.
func (s *Shell) cmdCodes() {
	s.lastCodes = s.vault.All()
	s.printCodes(s.lastCodes)
}

// cmdCode dispatches the code subcommands.
func (s *Shell) cmdCode(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: code add <code> <name...> | code rm <n>")
		return
	}

	switch args[0] {
	case "add":
		s.cmdCodeAdd(args[1:])
	case "rm", "remove":
		s.cmdCodeRemove(args[1:])
	default:
		fmt.Fprintf(s.rl.Stdout(), "Unknown code subcommand: %s\n", args[0])
	}
}

// cmdCodeAdd stores a new setup code.
func (s *Shell) cmdCodeAdd(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: code add <code> <name...>")
		fmt.Fprintln(s.rl.Stdout(), "  Example: code add 123-45-678 Bedroom Lamp")
		return
	}

	code := model.NormalizeSetupCode(args[0])
	if err := model.ValidateSetupCode(code); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid code: %v\n", err)
		return
	}
	name := strings.Join(args[1:], " ")

	record := model.SetupCodeRecord{
		AccessoryName: name,
		Code:          code,
		CodeFormat:    model.FormatNumeric,
	}
	if manufacturer, ok := model.InferManufacturer(name); ok {
		record.Manufacturer = manufacturer
	}

	saved, err := s.vault.Save(record)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to save code: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Stored %s for %q\n", model.FormatSetupCode(saved.Code), saved.AccessoryName)
}

// cmdCodeRemove deletes a stored code and its photo.
func (s *Shell) cmdCodeRemove(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: code rm <n>")
		fmt.Fprintln(s.rl.Stdout(), "  Use 'codes' to list code numbers")
		return
	}

	code, ok := s.codeByIndex(args[0])
	if !ok {
		return
	}

	if err := s.vault.Delete(code.ID); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to delete: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Deleted code for %q\n", code.AccessoryName)
}

// cmdPhoto attaches a photo to a stored code.
func (s *Shell) cmdPhoto(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: photo <n> <path>")
		fmt.Fprintln(s.rl.Stdout(), "  Use 'codes' to list code numbers")
		return
	}

	code, ok := s.codeByIndex(args[0])
	if !ok {
		return
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to read photo: %v\n", err)
		return
	}

	if err := s.vault.AttachPhoto(code.ID, data); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to attach photo: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Photo attached to %q\n", code.AccessoryName)
}

// cmdSearch searches the stored codes.
func (s *Shell) cmdSearch(args []string) {
	query := strings.Join(args, " ")
	s.lastCodes = s.vault.Search(query)
	s.printCodes(s.lastCodes)
}

// cmdExport writes the combined data to a file.
func (s *Shell) cmdExport(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: export csv|json|text <path>")
		return
	}

	format := strings.ToLower(args[0])
	path := args[1]

	accessories := s.accessories.All()
	codes := s.vault.All()

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to create file: %v\n", err)
		return
	}

	switch format {
	case "csv":
		err = export.WriteCSV(f, accessories, codes)
	case "json":
		err = export.WriteJSON(f, accessories, codes)
	case "text", "txt":
		err = export.WriteText(f, accessories, codes)
	default:
		f.Close()
		fmt.Fprintf(s.rl.Stdout(), "Unknown format: %s (use csv, json, or text)\n", format)
		return
	}

	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Exported %d accessories and %d codes to %s\n",
		len(accessories), len(codes), path)
}

// cmdStatus shows scanner and store state.
func (s *Shell) cmdStatus() {
	fmt.Fprintln(s.rl.Stdout(), "\nHomeVault Status")
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(s.rl.Stdout(), "  Scanner:     %s\n", s.scan.Status())
	fmt.Fprintf(s.rl.Stdout(), "  Discovered:  %d devices\n", len(s.scan.Devices()))
	fmt.Fprintf(s.rl.Stdout(), "  Inventory:   %d accessories\n", s.accessories.Count())
	fmt.Fprintf(s.rl.Stdout(), "  Codes:       %d stored\n", s.vault.Count())
	fmt.Fprintln(s.rl.Stdout())
}

// printCodes renders a code list with index numbers.
func (s *Shell) printCodes(codes []model.SetupCodeRecord) {
	if len(codes) == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No codes stored")
		return
	}

	fmt.Fprintf(s.rl.Stdout(), "\nSetup Codes (%d):\n", len(codes))
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	for i, c := range codes {
		fmt.Fprintf(s.rl.Stdout(), "%3d. %s: %s\n", i+1, c.AccessoryName, model.FormatSetupCode(c.Code))
		s.printField("Manufacturer", c.Manufacturer)
		s.printField("Model", c.Model)
		s.printField("Location", c.LocationHint)
		if c.PhotoRef != "" {
			s.printField("Photo", c.PhotoRef)
		}
		s.printField("Notes", c.Notes)
	}
	fmt.Fprintln(s.rl.Stdout())
}

func (s *Shell) printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "     %s: %s\n", label, value)
}

// deviceByIndex resolves a 1-based index into the last printed device
// list, refreshing the cache when it is empty.
func (s *Shell) deviceByIndex(arg string) (model.DiscoveredDevice, bool) {
	if len(s.lastDevices) == 0 {
		s.lastDevices = s.scan.Devices()
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(s.lastDevices) {
		fmt.Fprintf(s.rl.Stdout(), "No such device: %s\n", arg)
		return model.DiscoveredDevice{}, false
	}
	return s.lastDevices[n-1], true
}

// accessoryByIndex resolves a 1-based index into the last printed
// inventory list.
func (s *Shell) accessoryByIndex(arg string) (model.AccessoryRecord, bool) {
	if len(s.lastList) == 0 {
		s.lastList = s.accessories.All()
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(s.lastList) {
		fmt.Fprintf(s.rl.Stdout(), "No such accessory: %s\n", arg)
		return model.AccessoryRecord{}, false
	}
	return s.lastList[n-1], true
}

// codeByIndex resolves a 1-based index into the last printed code list.
func (s *Shell) codeByIndex(arg string) (model.SetupCodeRecord, bool) {
	if len(s.lastCodes) == 0 {
		s.lastCodes = s.vault.All()
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(s.lastCodes) {
		fmt.Fprintf(s.rl.Stdout(), "No such code: %s\n", arg)
		return model.SetupCodeRecord{}, false
	}
	return s.lastCodes[n-1], true
}

// handleScanEvent displays scan progress above the prompt.
func (s *Shell) handleScanEvent(event scanner.Event) {
	ts := time.Now().Format("15:04:05")

	switch event.Type {
	case scanner.EventScanStopped:
		fmt.Fprintf(s.rl.Stdout(), "\n[%s] Scan finished (%d devices)\n", ts, len(s.scan.Devices()))
	case scanner.EventDeviceFound:
		fmt.Fprintf(s.rl.Stdout(), "\n[%s] Found: %s (%s)\n", ts, event.Device.Name, event.Device.ServiceTypeTag.Label())
	case scanner.EventDeviceResolved:
		fmt.Fprintf(s.rl.Stdout(), "\n[%s] Resolved: %s -> %s:%d\n", ts, event.Device.Name, event.Device.IPAddress, event.Device.Port)
	case scanner.EventBrowseError:
		fmt.Fprintf(s.rl.Stdout(), "\n[%s] Browse error: %v\n", ts, event.Err)
	default:
		return
	}
	s.rl.Refresh()
}
