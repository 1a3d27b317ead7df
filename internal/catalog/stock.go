package catalog

// StockMissions returns the built-in mission set used to seed a fresh
// database.
func StockMissions() []Mission {
	return []Mission{
		{
			Name:       "Trace Echo",
			Difficulty: "medium",
			IsActive:   true,
			Brief:      "A rogue packet trail leads back through three proxy hops. Follow it home.",
			Steps:      "Scan the relay\nDecode hop headers\nPinpoint origin node",
			ParSeconds: 90,
		},
		{
			Name:       "Core Breach",
			Difficulty: "hard",
			IsActive:   false,
			Brief:      "The mainframe core is open for eleven minutes during maintenance. Get in.",
			Steps:      "Spoof maintenance token\nTunnel past the watchdog\nExfiltrate the core dump\nWipe access logs",
			ParSeconds: 180,
		},
		{
			Name:       "Firewall Reboot",
			Difficulty: "easy",
			IsActive:   true,
			Brief:      "A misconfigured firewall is cycling. Slip a rule in between restarts.",
			Steps:      "Watch the restart window\nInject the allow rule",
			ParSeconds: 60,
		},
	}
}
