package wsbridge

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-rescue/core/events"
)

// eventPayload converts a scene event into its wire form.
func eventPayload(event events.Event) (EventPayload, error) {
	payload := EventPayload{Kind: event.Kind().String(), Timestamp: event.Timestamp()}

	var data any
	switch event := event.(type) {
	case events.PhaseChanged:
		data = &phaseData{}
	case events.InputControlChanged:
		data = &inputData{}
	case events.EnergyChanged:
		data = &energyData{}
	case events.ChoiceAccepted, events.ChoiceDiscarded:
		data = &choiceData{}
	case events.OutcomeProduced:
		data = &outcomeData{}
	case events.CueIssued:
		data = &cueData{}
	case events.StatusPosted:
		data = &statusData{}
	case events.ListeningStarted, events.ListeningStopped:
		data = &listenData{}
	case events.NarrationStarted:
		payload.Data = narrationData{ID: event.Handle.ID.String(), Clip: event.Handle.Clip.String(), Overlay: event.Overlay}
		return payload, nil
	case events.NarrationFinished:
		payload.Data = narrationData{ID: event.Handle.ID.String(), Clip: event.Handle.Clip.String()}
		return payload, nil
	case events.NarrationStopped:
		payload.Data = narrationData{ID: event.Handle.ID.String(), Clip: event.Handle.Clip.String()}
		return payload, nil
	case events.UtteranceClassified:
		payload.Data = utteranceData{
			Mode:         event.Mode,
			Alternatives: event.Utterance.Alternatives,
			Volume:       event.Utterance.Volume,
			Choice:       event.Choice,
		}
		return payload, nil
	default:
		return payload, nil
	}

	if err := copier.Copy(data, event); err != nil {
		return payload, fmt.Errorf("failed to copy %s event: %w", event.Kind(), err)
	}
	payload.Data = data
	return payload, nil
}

func encode(msg Outbound) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", msg.Type, err)
	}
	return data, nil
}
