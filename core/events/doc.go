// Package events defines the typed notifications a scene sends to its host.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - scene.*
//   - choice.*
//   - presentation.*
//   - narration.*
//   - listener.*
//
// The host only ever receives events; it never reaches into scene state.
//
// scene events
//
//   - PhaseChanged (scene.phase_changed): the single active phase changed.
//   - IntroReady (scene.intro_ready): intro narration is over and the intro
//     can be acknowledged.
//   - InputControlChanged (scene.input_control_changed): the listen control
//     was enabled or disabled.
//   - EnergyChanged (scene.energy_changed): remaining energy during the
//     scream branch.
//   - SceneTornDown (scene.torn_down): final event of a scene.
//
// choice events
//
//   - ChoiceAccepted (choice.accepted): a choice was delivered in waiting and
//     is being resolved.
//   - ChoiceDiscarded (choice.discarded): a choice arrived in any other phase
//     and was ignored.
//   - OutcomeProduced (choice.outcome_produced): victory with a reward, or
//     game over.
//
// presentation events
//
//   - CueIssued (presentation.cue): show, hide, sound, camera, transition or
//     caption command for the presentation engine.
//   - StatusPosted (presentation.status_posted): bilingual status line.
//   - StatusCleared (presentation.status_cleared): status line auto-cleared.
//
// narration events
//
//   - NarrationStarted (narration.started): a clip started; any previous clip
//     was stopped first.
//   - NarrationFinished (narration.finished): the current clip played out.
//   - NarrationStopped (narration.stopped): the current clip was cut off.
//
// listener events
//
//   - ListeningStarted (listener.started): a recognition attempt began.
//   - ListeningStopped (listener.stopped): the attempt ended.
//   - UtteranceClassified (listener.utterance_classified): the attempt's
//     input and the choice it was classified as.
package events
