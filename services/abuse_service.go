// file: services/abuse_service.go
package services

import (
	"NovaCTF/config"
	"NovaCTF/database"
	"NovaCTF/models"
	"NovaCTF/utils"
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Evidence aggregates one user's recent ledger activity for rule evaluation
// and for the classification pass.
type Evidence struct {
	UserID           uint32 `json:"user_id"`
	ChallengeID      uint32 `json:"challenge_id"`
	WindowSeconds    int    `json:"window_seconds"`
	TotalSubmissions int    `json:"total_submissions"`
	SameChallenge    int    `json:"same_challenge_attempts"`
	Incorrect        int    `json:"incorrect_attempts"`
	LastResult       string `json:"last_result"`
}

type RuleTrigger struct {
	Type     models.AlertType
	Severity models.AlertSeverity
	Evidence Evidence
}

type Judgment struct {
	Suspicious bool
	Rationale  string
}

// Classifier renders a "suspicious" / "normal" judgment over triggered rules.
// Implementations may be remote and slow; callers bound them with a context.
type Classifier interface {
	Classify(ctx context.Context, triggers []RuleTrigger) (Judgment, error)
}

// ActiveClassifier is installed at boot. Nil means rule triggers are judged
// suspicious as-is (pure rule-based operation).
var ActiveClassifier Classifier

// EvaluateSubmission is the fire-and-forget abuse pass invoked after a
// submission has been recorded. It must never propagate an error or panic
// into the submitting user's flow.
func EvaluateSubmission(userID uint32, challengeID uint32, result models.FlagResult) {
	defer func() {
		if r := recover(); r != nil {
			utils.Logger.Error("abuse monitor panic", "user_id", userID, "recover", r)
		}
	}()

	ev, err := collectEvidence(userID, challengeID, result)
	if err != nil {
		utils.Logger.Warn("abuse monitor: evidence query failed", "user_id", userID, "err", err.Error())
		return
	}

	triggers := EvaluateRules(ev)
	if len(triggers) == 0 {
		return
	}

	judgment := classify(triggers)
	if !judgment.Suspicious {
		return
	}

	persistAlerts(triggers, judgment.Rationale)
	markWindowSuspected(userID, ev.WindowSeconds)
}

// EvaluateRules applies the two independent rule triggers to a window of
// evidence. More than RapidSubmissionThreshold total is rapid (medium); more
// than BruteforceSameChallenge attempts at one challenge with at least
// BruteforceIncorrect misses is brute force (high).
func EvaluateRules(ev Evidence) []RuleTrigger {
	var triggers []RuleTrigger

	if ev.TotalSubmissions > config.C.RapidSubmissionThreshold {
		triggers = append(triggers, RuleTrigger{
			Type:     models.AlertTypeRapidSubmission,
			Severity: models.SeverityMedium,
			Evidence: ev,
		})
	}

	if ev.SameChallenge > config.C.BruteforceSameChallenge &&
		ev.Incorrect >= config.C.BruteforceIncorrect {
		triggers = append(triggers, RuleTrigger{
			Type:     models.AlertTypeBruteforce,
			Severity: models.SeverityHigh,
			Evidence: ev,
		})
	}

	return triggers
}

func collectEvidence(userID uint32, challengeID uint32, result models.FlagResult) (Evidence, error) {
	since := time.Now().UTC().Add(-config.C.AbuseWindow)
	window := func() *gorm.DB {
		return database.DB.Model(&models.Submission{}).
			Where("user_id = ? AND submitted_at >= ?", userID, since)
	}

	var total, same, incorrect int64
	if err := window().Count(&total).Error; err != nil {
		return Evidence{}, err
	}
	if err := window().Where("challenge_id = ?", challengeID).Count(&same).Error; err != nil {
		return Evidence{}, err
	}
	if err := window().Where("result = ?", models.FlagResultIncorrect).Count(&incorrect).Error; err != nil {
		return Evidence{}, err
	}

	return Evidence{
		UserID:           userID,
		ChallengeID:      challengeID,
		WindowSeconds:    int(config.C.AbuseWindow.Seconds()),
		TotalSubmissions: int(total),
		SameChallenge:    int(same),
		Incorrect:        int(incorrect),
		LastResult:       string(result),
	}, nil
}

// classify runs the classification pass. When the classifier is missing the
// rule judgment stands; when it errors the trigger is still recorded with a
// degraded rationale rather than dropped.
func classify(triggers []RuleTrigger) Judgment {
	if ActiveClassifier == nil {
		return Judgment{Suspicious: true, Rationale: "rule-based judgment: thresholds exceeded"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.C.ClassifierTimeout)
	defer cancel()

	judgment, err := ActiveClassifier.Classify(ctx, triggers)
	if err != nil {
		utils.Logger.Warn("abuse monitor: classifier unreachable", "err", err.Error())
		return Judgment{Suspicious: true, Rationale: "classifier unavailable; raw rule trigger recorded"}
	}
	return judgment
}

func persistAlerts(triggers []RuleTrigger, rationale string) {
	for _, t := range triggers {
		details, err := json.Marshal(t.Evidence)
		if err != nil {
			utils.Logger.Warn("abuse monitor: evidence marshal failed", "err", err.Error())
			continue
		}
		alert := models.SecurityAlert{
			UserID:    t.Evidence.UserID,
			Type:      t.Type,
			Severity:  t.Severity,
			Details:   string(details),
			Rationale: rationale,
			CreatedAt: time.Now().UTC(),
		}
		if err := database.DB.Create(&alert).Error; err != nil {
			utils.Logger.Warn("abuse monitor: alert write failed", "err", err.Error())
			continue
		}
		utils.Logger.Info("security alert raised",
			"user_id", alert.UserID, "type", string(alert.Type), "severity", string(alert.Severity))
	}
}

// markWindowSuspected flips the advisory bit on the window's ledger rows so
// operators browsing the flag log see the same picture as the alert list.
func markWindowSuspected(userID uint32, windowSeconds int) {
	since := time.Now().UTC().Add(-time.Duration(windowSeconds) * time.Second)
	err := database.DB.Model(&models.Submission{}).
		Where("user_id = ? AND submitted_at >= ?", userID, since).
		Update("suspected", true).Error
	if err != nil {
		utils.Logger.Warn("abuse monitor: suspected marking failed", "err", err.Error())
	}
}
