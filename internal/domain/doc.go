// Package domain models community water-quality and symptom reports and the
// deterministic scoring rules applied to them.
//
// # Data Source
//
// Reports are submitted by field workers (ASHA workers, volunteers, village
// leaders) through the dashboard forms, by upstream collectors publishing to the
// Kafka source topic, or by water-quality sensors over MQTT. Every path converges
// on the same form types ([WaterForm], [SymptomForm]) and the same scorers.
//
// # Water Quality Scoring
//
// A reading starts at 100 points and loses points for each parameter outside
// its safe band. Penalties are independent and additive:
//
//	pH outside 6.5–8.5        −20  "pH out of safe range"
//	turbidity > 5 NTU         −25  "High turbidity detected"
//	TDS > 500 ppm             −15  "High dissolved solids"
//	temperature outside 10–35 −10  "Temperature abnormal"
//	color other than "clear"  −15  "Unusual water color"
//	odor other than "none"    −20  "Water has odor"
//
// The score is clamped at 0 and bucketed: <30 HighRisk, <60 MediumRisk,
// <80 LowRisk, otherwise Safe. Color and odor comparisons are case-sensitive;
// the forms submit lower-case values.
//
// # Symptom Scoring
//
// Symptom text is lower-cased once and searched for keyword groups. Each rule
// is checked against the same text, so several rules can fire in one call. The
// score of every fired rule is summed while the disease label of the last fired
// rule wins:
//
//	diarrhea | loose stool            +30  "Diarrheal Disease"
//	  ... and fever | vomiting        +20  "Gastroenteritis/Cholera Risk"
//	fever & headache                  +25  "Typhoid/Viral Fever Risk"
//	jaundice | yellow                 +35  "Hepatitis Risk"
//	abdominal pain & cramps (ext.)    +15  (label unchanged)
//
// Severity then multiplies the score (severe ×1.5, moderate ×1.2) and duration
// adds a bonus (>7d +20, 4-7d +10). The result is capped at 100 and bucketed:
// >70 High Risk, >40 Medium Risk, otherwise Low Risk. Scores stay fractional
// here; rounding is a presentation concern.
//
// # Form Fallbacks
//
// Forms carry loosely typed values. Missing, unparseable or zero numeric fields
// fall back to pH 7.0, turbidity 0, TDS 0 and temperature 25 °C, matching the
// behavior of the original dashboard. Empty color and odor become "clear" and
// "none". See [ParseWaterForm].
package domain
