package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/letter"
)

// resolveTarget builds a knowledge.Target and its input alphabet from
// either a built-in scenario name or a network address. Exactly one of
// scenarioName, networkAddr must be set; networkAlphabet is a
// comma-separated letter list required alongside networkAddr since a raw
// socket target has no built-in alphabet to introspect.
func resolveTarget(scenarioName, networkAddr, networkAlphabet string, timeout time.Duration) (knowledge.Target, []letter.Letter, error) {
	switch {
	case scenarioName != "" && networkAddr != "":
		return nil, nil, fmt.Errorf("specify --scenario or --network, not both")
	case scenarioName != "":
		s, err := findScenario(scenarioName)
		if err != nil {
			return nil, nil, err
		}
		m := s.build()
		return knowledge.NewFixtureTarget(m), m.Alphabet(), nil
	case networkAddr != "":
		if networkAlphabet == "" {
			return nil, nil, fmt.Errorf("--network requires --alphabet to declare the input letters the target accepts")
		}
		var alphabet []letter.Letter
		for _, sym := range strings.Split(networkAlphabet, ",") {
			sym = strings.TrimSpace(sym)
			if sym == "" {
				continue
			}
			alphabet = append(alphabet, letter.New(sym))
		}
		if len(alphabet) == 0 {
			return nil, nil, fmt.Errorf("--alphabet produced no letters")
		}
		return knowledge.NewNetworkTarget(networkAddr, timeout), alphabet, nil
	default:
		return nil, nil, fmt.Errorf("specify --scenario or --network")
	}
}
