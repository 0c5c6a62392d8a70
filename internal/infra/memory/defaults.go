package memory

import "github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"

// DefaultMissions is the bundled mission set, used when no content store is
// configured. The step lists are the canonical grading sequences.
func DefaultMissions() []domain.Mission {
	return []domain.Mission{
		{
			Name:  "Chandrayaan-2",
			Blurb: "🇮🇳 You are Mission Commander for Vikram lander's final descent. Stabilize, slow down, align, and achieve soft touchdown.",
			Emoji: "🌙",
			Steps: []string{
				"🔄 Stabilize attitude using RCS thrusters",
				"⬇️ Reduce vertical descent rate",
				"🚀 Adjust main engine thrust for soft descent",
				"🎯 Align lander over safe landing site",
				"🛑 Final braking burn",
				"🏁 Touchdown and engine cutoff",
			},
		},
		{
			Name:  "Apollo 11",
			Blurb: "🇺🇸 Guide Eagle to Tranquility Base. Navigate hazards, manage fuel consumption, and land manually.",
			Emoji: "🌕",
			Steps: []string{
				"🚀 Initiate powered descent (PDI)",
				"📡 Pitch over and acquire landing site",
				"🎮 Manual control to avoid boulder field",
				"⚡ Reduce vertical and horizontal velocity",
				"🚁 Final descent and hover",
				"🛑 Engine shutdown at touchdown",
			},
		},
		{
			Name:  "Gaganyaan",
			Blurb: "🇮🇳 Indian crewed mission profile. Ensure nominal ascent, orbital insertion, and safe crew recovery.",
			Emoji: "🛰️",
			Steps: []string{
				"🚀 Liftoff and ascent monitoring",
				"💨 Max-Q passage and throttle management",
				"🔗 Stage separation and guidance to orbit",
				"👨‍🚀 Crew module separation",
				"🔥 De-orbit burn and re-entry",
				"🪂 Drogue then main parachute deployment and splashdown",
			},
		},
	}
}

// DefaultQuizPool is the bundled question pool.
func DefaultQuizPool() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{
			ID:          "q1",
			Prompt:      "On the Moon (g≈1.6 m/s²), you drop a tool from 3.6 m height. Approximate time to hit surface?",
			Options:     []string{"1.5 seconds", "2.1 seconds", "2.8 seconds", "3.0 seconds"},
			AnswerIndex: 1,
			Explain:     "Using t = √(2h/g) = √(2×3.6/1.6) ≈ 2.12 seconds",
		},
		{
			ID:          "q2",
			Prompt:      "If a LEO satellite doubles its orbital radius, its orbital speed becomes:",
			Options:     []string{"Same speed", "2× faster", "1/√2 slower", "√2 faster"},
			AnswerIndex: 2,
			Explain:     "Orbital speed v ∝ 1/√r, so doubling radius reduces speed by factor √2",
		},
		{
			ID:          "q3",
			Prompt:      "Complete the countdown code:\n```python\nimport time\nn = 10\nwhile n > 0:\n    print(n)\n    time.sleep(1)\n    n = n __ 1\nprint('LIFTOFF!')\n```",
			Options:     []string{"+ (plus)", "- (minus)", "* (multiply)", "/ (divide)"},
			AnswerIndex: 1,
			Explain:     "Need to decrement n, so n = n - 1 (or n -= 1)",
		},
		{
			ID:          "q4",
			Prompt:      "Which celestial body requires the highest escape velocity?",
			Options:     []string{"Moon", "Mars", "Earth", "Jupiter"},
			AnswerIndex: 3,
			Explain:     "Jupiter has the highest escape velocity (~59.5 km/s) due to its massive size",
		},
		{
			ID:          "q5",
			Prompt:      "What is the orbital period of a geostationary satellite?",
			Options:     []string{"12 hours", "24 hours", "36 hours", "48 hours"},
			AnswerIndex: 1,
			Explain:     "Geostationary satellites orbit in 24 hours to match Earth's rotation",
		},
		{
			ID:          "q6",
			Prompt:      "The first artificial satellite launched by India was:",
			Options:     []string{"Rohini-1", "Aryabhata", "Bhaskara-1", "IRS-1A"},
			AnswerIndex: 1,
			Explain:     "Aryabhata was India's first satellite, launched in 1975",
		},
		{
			ID:          "q7",
			Prompt:      "In space, the primary method of heat transfer is:",
			Options:     []string{"Conduction", "Convection", "Radiation", "All equally"},
			AnswerIndex: 2,
			Explain:     "In vacuum, only radiation can transfer heat (no medium for conduction/convection)",
		},
	}
}
