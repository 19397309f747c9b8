package engine

import "strconv"

// SoundCue identifies which sound a FeedbackEvent's animation should play.
type SoundCue string

const (
	SoundAttack  SoundCue = "ATTACK"
	SoundCombat  SoundCue = "COMBAT"
)

// FloatingText is a single piece of floating combat text to render at a
// region (e.g. "Earth kills 2!", "Conquered!").
type FloatingText struct {
	RegionIndex int    `json:"regionIndex"`
	Text        string `json:"text"`
	Color       string `json:"color"`
	Width       int    `json:"width,omitempty"`
}

// AttackEvent is the sole interchange between the combat resolver and the
// feedback/animation layer (§4.3). Every field is optional; only the ones
// relevant to a given event are populated.
type AttackEvent struct {
	AttackerCasualties int            `json:"attackerCasualties,omitempty"`
	DefenderCasualties int            `json:"defenderCasualties,omitempty"`
	RunningAttackerTotal int          `json:"runningAttackerTotal,omitempty"`
	RunningDefenderTotal int          `json:"runningDefenderTotal,omitempty"`
	SoundCue    SoundCue       `json:"soundCue,omitempty"`
	Delay       int            `json:"delay,omitempty"`
	FloatingText []FloatingText `json:"floatingText,omitempty"`
	IsRetreat   bool           `json:"isRetreat,omitempty"`
}

const (
	preemptiveDelayMs = 800
	roundDelayMs      = 800
	finalDelayMs      = 600
)

// colorGold and colorDefender are placeholder display colors; a real client
// substitutes the player's configured color. Kept here only because the
// "Conquered!"/"Defended!" floating text color is part of the AttackEvent
// contract clients render without further lookups.
const (
	colorGold     = "gold"
	colorDefender = "crimson"
)

// combatResult is the mutated outcome of ResolveCombat, applied by the
// caller (ArmyMoveCommand) to produce the next GameState.
type combatResult struct {
	events            []AttackEvent
	attackerSurvivors int
	defendersKilled   int
	conquered         bool
	retreated         bool

	// airRefundOwner/airRefundAmount record an AIR-temple mobility bonus
	// earned by successfully defending (§open question #2); zero amount
	// means no refund applies.
	airRefundOwner  int
	airRefundAmount int
}

// ResolveCombat runs Risk-style dice combat for an attack of count soldiers
// from source against target, consuming draws from s.RNG(). It does not
// mutate s; the caller applies the returned outcome. Returns nil events and
// a zero result if the two regions share an owner — callers handle peaceful
// transfer themselves (§4.2).
func ResolveCombat(s *GameState, source, target, count int) ([]AttackEvent, combatResult) {
	attackerSlot, attackerOwned := s.OwnerOf(source)
	defenderSlot, defenderOwned := s.OwnerOf(target)
	if attackerOwned && defenderOwned && attackerSlot == defenderSlot {
		return nil, combatResult{}
	}

	rng := s.RNG()

	attackerTemple := s.TempleAt(source)
	defenderTemple := s.TempleAt(target)

	attackersRemaining := count
	defendersRemaining := s.SoldierCountAt(target)

	var events []AttackEvent
	runningAttacker := 0
	runningDefender := 0

	originalCount := count

	emit := func(ev AttackEvent) {
		runningAttacker += ev.AttackerCasualties
		runningDefender += ev.DefenderCasualties
		ev.RunningAttackerTotal = runningAttacker
		ev.RunningDefenderTotal = runningDefender
		events = append(events, ev)
	}

	// 1. Preemptive EARTH damage (defender bonus).
	if defenderTemple != nil {
		preemptive := min(attackersRemaining, defenderTemple.UpgradeLevel(UpgradeEarth))
		if preemptive > 0 {
			attackersRemaining -= preemptive
			emit(AttackEvent{
				AttackerCasualties: preemptive,
				SoundCue:           SoundAttack,
				Delay:              preemptiveDelayMs,
				FloatingText: []FloatingText{{
					RegionIndex: target,
					Text:        formatKills("Earth", preemptive),
					Color:       colorDefender,
				}},
			})
		}
	}

	// 2. Preemptive FIRE damage (attacker bonus).
	if attackerTemple != nil && attackersRemaining > 0 {
		fire := min(defendersRemaining, attackerTemple.UpgradeLevel(UpgradeFire))
		if fire > 0 {
			defendersRemaining -= fire
			emit(AttackEvent{
				DefenderCasualties: fire,
				SoundCue:           SoundAttack,
				Delay:              preemptiveDelayMs,
				FloatingText: []FloatingText{{
					RegionIndex: target,
					Text:        formatKills("Fire", fire),
					Color:       colorGold,
				}},
			})
		}
	}

	// 3. Retreat check after preemptive damage.
	halfOriginal := originalCount / 2
	if runningAttacker > halfOriginal && attackersRemaining > 0 && defendersRemaining > 0 {
		events = append(events, retreatEvents(source, target)...)
		result := combatResult{
			events:            events,
			attackerSurvivors: attackersRemaining,
			retreated:         true,
		}
		result.airRefundOwner, result.airRefundAmount = airRefundFor(defenderOwned, defenderTemple, defenderSlot)
		return events, result
	}

	// 4. Melee rounds.
	for attackersRemaining > 0 && defendersRemaining > 0 {
		attackDice := rollSorted(rng, min(3, attackersRemaining))
		defendDice := rollSorted(rng, min(2, defendersRemaining))

		attackerCasualtiesRound, defenderCasualtiesRound := compareDice(attackDice, defendDice)

		attackersRemaining -= attackerCasualtiesRound
		defendersRemaining -= defenderCasualtiesRound

		emit(AttackEvent{
			AttackerCasualties: attackerCasualtiesRound,
			DefenderCasualties: defenderCasualtiesRound,
			SoundCue:           SoundCombat,
			Delay:              roundDelayMs,
		})

		if runningAttacker > halfOriginal && attackersRemaining > 0 && defendersRemaining > 0 {
			events = append(events, retreatEvents(source, target)...)
			result := combatResult{
				events:            events,
				attackerSurvivors: attackersRemaining,
				retreated:         true,
			}
			result.airRefundOwner, result.airRefundAmount = airRefundFor(defenderOwned, defenderTemple, defenderSlot)
			return events, result
		}
	}

	// 5. Outcome event. Neither outcome carries a dice soundCue: an empty
	// attack (0 defenders) must produce zero COMBAT events (§8 boundary case).
	if defendersRemaining <= 0 {
		emit(AttackEvent{
			FloatingText: []FloatingText{{
				RegionIndex: target,
				Text:        "Conquered!",
				Color:       colorGold,
			}},
		})
		events = append(events, AttackEvent{Delay: finalDelayMs})
		return events, combatResult{
			events:            events,
			attackerSurvivors: attackersRemaining,
			defendersKilled:   s.SoldierCountAt(target),
			conquered:         true,
		}
	}

	// Attackers eliminated (and not retreated — they fought to the last unit).
	emit(AttackEvent{
		FloatingText: []FloatingText{{
			RegionIndex: target,
			Text:        "Defended!",
			Color:       colorDefender,
		}},
	})
	events = append(events, AttackEvent{Delay: finalDelayMs})

	result := combatResult{
		events:            events,
		attackerSurvivors: 0,
	}
	result.airRefundOwner, result.airRefundAmount = airRefundFor(defenderOwned, defenderTemple, defenderSlot)

	_ = attackerSlot
	return events, result
}

// airRefundFor computes the AIR-temple mobility refund owed to a defender
// who successfully holds a temple region (§open question #2). Returns a
// zero amount when the defender has no AIR upgrade.
func airRefundFor(defenderOwned bool, defenderTemple *Temple, defenderSlot int) (owner, amount int) {
	if !defenderOwned || defenderTemple == nil {
		return 0, 0
	}
	if air := defenderTemple.UpgradeLevel(UpgradeAir); air > 0 {
		return defenderSlot, air
	}
	return 0, 0
}

func retreatEvents(source, target int) []AttackEvent {
	return []AttackEvent{
		{
			IsRetreat: true,
			Delay:     roundDelayMs,
			FloatingText: []FloatingText{{
				RegionIndex: source,
				Text:        "Retreat!",
				Color:       colorDefender,
			}},
		},
		{
			FloatingText: []FloatingText{{
				RegionIndex: target,
				Text:        "Defended!",
				Color:       colorDefender,
			}},
		},
		{Delay: finalDelayMs},
	}
}

func formatKills(element string, n int) string {
	return element + " kills " + strconv.Itoa(n) + "!"
}

// rollSorted rolls n d6 and returns them sorted descending.
func rollSorted(rng *RNG, n int) []int {
	dice := make([]int, n)
	for i := range dice {
		dice[i] = rng.RollDice(6)
	}
	sortDescending(dice)
	return dice
}

func sortDescending(dice []int) {
	for i := 1; i < len(dice); i++ {
		for j := i; j > 0 && dice[j] > dice[j-1]; j-- {
			dice[j], dice[j-1] = dice[j-1], dice[j]
		}
	}
}

// compareDice compares sorted-descending attacker and defender dice
// Risk-style: highest vs highest always, second vs second only if both
// sides rolled at least two. Ties go to the defender.
func compareDice(attack, defend []int) (attackerCasualties, defenderCasualties int) {
	comparisons := min(len(attack), len(defend))
	for i := 0; i < comparisons; i++ {
		if attack[i] > defend[i] {
			defenderCasualties++
		} else {
			attackerCasualties++
		}
	}
	return
}
