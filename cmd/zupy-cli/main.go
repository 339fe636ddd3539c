package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"

	"zupytoken/gateway"
	"zupytoken/ledger"
	"zupytoken/native/common"
	"zupytoken/native/ctoken"
	"zupytoken/native/memo"
	"zupytoken/native/pda"
	"zupytoken/native/split"
	"zupytoken/native/token"
	"zupytoken/storage"
)

const usage = `zupy-cli: offline tooling for the token program

Usage:
  zupy-cli derive state
  zupy-cli derive company <id>
  zupy-cli derive user <id>
  zupy-cli derive incentive
  zupy-cli derive distribution
  zupy-cli derive ratelimit <authority>
  zupy-cli derive card <hex-27-byte-id>
  zupy-cli derive pool <mint>
  zupy-cli split <amount>
  zupy-cli memo check <memo>
  zupy-cli memo format <source> <source-id>
  zupy-cli decode state <base64>
  zupy-cli decode instruction <base64>
  zupy-cli errors
  zupy-cli simulate <scenario.json>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "derive":
		err = runDerive(os.Args[2:])
	case "split":
		err = runSplit(os.Args[2:])
	case "memo":
		err = runMemo(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "errors":
		err = runErrors()
	case "simulate":
		err = runSimulate(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runDerive(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("derive: missing target")
	}
	program := token.ProgramID
	print := func(key solana.PublicKey, bump uint8, err error) error {
		if err != nil {
			return err
		}
		fmt.Printf("%s bump=%d\n", key, bump)
		return nil
	}

	switch args[0] {
	case "state":
		return print(pda.TokenState(program))
	case "company":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return print(pda.Company(program, id))
	case "user":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return print(pda.User(program, id))
	case "incentive":
		return print(pda.IncentivePool(program))
	case "distribution":
		return print(pda.DistributionPool(program))
	case "ratelimit":
		if len(args) < 2 {
			return fmt.Errorf("derive ratelimit: missing authority")
		}
		authority, err := solana.PublicKeyFromBase58(args[1])
		if err != nil {
			return err
		}
		return print(pda.RateLimit(program, authority))
	case "card":
		if len(args) < 2 {
			return fmt.Errorf("derive card: missing identifier")
		}
		id, err := hex.DecodeString(args[1])
		if err != nil {
			return err
		}
		if len(id) != token.CardIDLen {
			return fmt.Errorf("derive card: identifier must be %d bytes, got %d", token.CardIDLen, len(id))
		}
		return print(pda.Card(program, id))
	case "pool":
		if len(args) < 2 {
			return fmt.Errorf("derive pool: missing mint")
		}
		mint, err := solana.PublicKeyFromBase58(args[1])
		if err != nil {
			return err
		}
		return print(ctoken.DeriveSPLInterfacePDA(mint))
	default:
		return fmt.Errorf("derive: unknown target %q", args[0])
	}
}

func parseID(args []string) (uint64, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("derive %s: missing id", args[0])
	}
	return strconv.ParseUint(args[1], 10, 64)
}

func runSplit(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("split: missing amount")
	}
	total, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return err
	}
	result, err := split.Calculate(total)
	if err != nil {
		return err
	}
	fmt.Printf("total=%d company=%d burn=%d incentive=%d\n",
		total, result.Company, result.Burn, result.Incentive)
	return nil
}

func runMemo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("memo: missing subcommand")
	}
	switch args[0] {
	case "check":
		if len(args) < 2 {
			return fmt.Errorf("memo check: missing memo")
		}
		if err := memo.Validate(args[1]); err != nil {
			return err
		}
		source, sourceID, err := memo.Parts(args[1])
		if err != nil {
			return err
		}
		fmt.Printf("valid source=%s sourceId=%s\n", source, sourceID)
		return nil
	case "format":
		if len(args) < 3 {
			return fmt.Errorf("memo format: need source and source-id")
		}
		formatted := memo.Format(args[1], args[2])
		if err := memo.Validate(formatted); err != nil {
			return err
		}
		fmt.Println(formatted)
		return nil
	default:
		return fmt.Errorf("memo: unknown subcommand %q", args[0])
	}
}

func runDecode(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("decode: need a kind and base64 data")
	}
	raw, err := base64.StdEncoding.DecodeString(args[1])
	if err != nil {
		return err
	}
	var decoded any
	switch args[0] {
	case "state":
		decoded, err = gateway.DecodeStateRecord(raw)
	case "instruction":
		decoded, err = gateway.DecodeInstructionData(raw)
	default:
		return fmt.Errorf("decode: unknown kind %q", args[0])
	}
	if err != nil {
		return err
	}
	return printJSON(decoded)
}

func runErrors() error {
	for _, coded := range common.Errors() {
		fmt.Printf("%d\t%s\n", coded.Code(), coded.Message())
	}
	return nil
}

func runSimulate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("simulate: missing scenario file")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var scenario ledger.Scenario
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&scenario); err != nil {
		return err
	}
	report, err := ledger.RunScenario(storage.NewMemDB(), &scenario)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
