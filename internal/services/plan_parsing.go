package services

import (
  "encoding/json"
  "fmt"
  "regexp"
  "strconv"
  "strings"
)

// planSource tags which tier of the fallback chain produced a plan.
type planSource string

const (
  planSourceStructured planSource = "structured"
  planSourceText       planSource = "text"
  planSourceGeneric    planSource = "generic"
)

// planDay is one day's subtask within a week. DayOffset is relative to the
// week's start date.
type planDay struct {
  DayOffset   int
  Description string
}

// planWeek is the normalized output of every parsing tier; the builder
// persists it without knowing which tier produced it.
type planWeek struct {
  WeekNumber  int
  Title       string
  Description string
  Days        []planDay
}

const maxDailyTasksPerWeek = 7

var (
  jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
  jsonFencePattern  = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

  weekHeaderPattern   = regexp.MustCompile(`(?i)(?:\*\*)?week\s+(\d+)(?:\*\*)?:?`)
  bulletPrefixPattern = regexp.MustCompile(`^[\*\-\+•]\s*`)
  numberPrefixPattern = regexp.MustCompile(`^\d+\.\s*`)
  boldMarkerPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// extractPlanJSON pulls a JSON-shaped candidate out of the raw model output.
// Purely lexical: first an outermost brace pair (greedy, spans newlines),
// then a ```json fenced block, then the trimmed text itself as a last-ditch
// candidate.
func extractPlanJSON(text string) string {
  if m := jsonObjectPattern.FindString(text); m != "" {
    return m
  }
  if m := jsonFencePattern.FindStringSubmatch(text); len(m) > 1 {
    return m[1]
  }
  return strings.TrimSpace(text)
}

// decodePlanJSON parses the candidate into a generic mapping so that field
// presence can be checked, which a typed decode would hide.
func decodePlanJSON(candidate string) (map[string]any, error) {
  var data map[string]any
  if err := json.Unmarshal([]byte(candidate), &data); err != nil {
    return nil, fmt.Errorf("parse plan json: %w", err)
  }
  return data, nil
}

// validateScheduleData fails closed: anything but a non-empty "weeks" list
// whose every element carries week_number, title and a daily_tasks list is
// rejected.
func validateScheduleData(data map[string]any) bool {
  if data == nil {
    return false
  }
  rawWeeks, ok := data["weeks"]
  if !ok {
    return false
  }
  weeksList, ok := rawWeeks.([]any)
  if !ok || len(weeksList) == 0 {
    return false
  }
  for _, rawWeek := range weeksList {
    week, ok := rawWeek.(map[string]any)
    if !ok {
      return false
    }
    if _, ok := week["week_number"]; !ok {
      return false
    }
    if _, ok := week["title"]; !ok {
      return false
    }
    rawDaily, ok := week["daily_tasks"]
    if !ok {
      return false
    }
    if _, ok := rawDaily.([]any); !ok {
      return false
    }
  }
  return true
}

// structuredWeeks maps a validated plan onto planWeeks, in input order.
// Day offsets are positional within the original 7-slot daily list, so a
// blank entry leaves a hole rather than shifting later days earlier.
// Entries with a week number outside [1, maxWeeks], or repeating an already
// seen week number, are skipped (first occurrence wins).
func structuredWeeks(data map[string]any, maxWeeks int) []planWeek {
  weeksList, _ := data["weeks"].([]any)
  out := make([]planWeek, 0, len(weeksList))
  seen := make(map[int]bool, len(weeksList))

  for _, rawWeek := range weeksList {
    week, ok := rawWeek.(map[string]any)
    if !ok {
      continue
    }
    weekNumber := intFromAny(week["week_number"], 1)
    if weekNumber < 1 || weekNumber > maxWeeks || seen[weekNumber] {
      continue
    }
    seen[weekNumber] = true

    title := stringFromAny(week["title"], fmt.Sprintf("Week %d", weekNumber))
    focus := stringFromAny(week["focus"], "")
    daily, _ := week["daily_tasks"].([]any)
    if len(daily) > maxDailyTasksPerWeek {
      daily = daily[:maxDailyTasksPerWeek]
    }

    // Offsets index into the capped list as given, so a blank (or
    // non-string) entry leaves its day slot empty instead of pulling
    // later entries earlier.
    days := make([]planDay, 0, len(daily))
    for idx, rawDesc := range daily {
      desc, _ := rawDesc.(string)
      trimmed := strings.TrimSpace(desc)
      if trimmed == "" {
        continue
      }
      days = append(days, planDay{DayOffset: idx, Description: trimmed})
    }

    out = append(out, planWeek{
      WeekNumber:  weekNumber,
      Title:       title,
      Description: focus,
      Days:        days,
    })
  }
  return out
}

// textWeeks is the regex fallback for prose responses. Sections run from one
// "Week <n>" header to the next; at most maxWeeks sections are consumed.
// Returns nil when no week header is found at all.
func textWeeks(text string, maxWeeks int) []planWeek {
  headers := weekHeaderPattern.FindAllStringSubmatchIndex(text, -1)
  if len(headers) == 0 {
    return nil
  }
  sections := len(headers)
  if sections > maxWeeks {
    sections = maxWeeks
  }

  out := make([]planWeek, 0, sections)
  for i := 0; i < sections; i++ {
    header := headers[i]
    weekNumber, err := strconv.Atoi(text[header[2]:header[3]])
    if err != nil {
      continue
    }
    sectionEnd := len(text)
    if i+1 < len(headers) {
      sectionEnd = headers[i+1][0]
    }
    section := text[header[1]:sectionEnd]

    var lines []string
    for _, line := range strings.Split(section, "\n") {
      if trimmed := strings.TrimSpace(line); trimmed != "" {
        lines = append(lines, trimmed)
      }
    }

    title := fmt.Sprintf("Week %d", weekNumber)
    if len(lines) > 0 {
      title = fmt.Sprintf("Week %d: %s...", weekNumber, truncate(lines[0], 50))
    }

    var days []planDay
    for _, line := range lines[min(1, len(lines)):] {
      clean := bulletPrefixPattern.ReplaceAllString(line, "")
      clean = numberPrefixPattern.ReplaceAllString(clean, "")
      clean = boldMarkerPattern.ReplaceAllString(clean, "$1")
      if len(clean) <= 10 {
        continue
      }
      days = append(days, planDay{DayOffset: len(days), Description: clean})
      if len(days) == maxDailyTasksPerWeek {
        break
      }
    }

    out = append(out, planWeek{
      WeekNumber:  weekNumber,
      Title:       title,
      Description: fmt.Sprintf("Week %d objectives", weekNumber),
      Days:        days,
    })
  }
  return out
}

var genericDailyTasks = []string{
  "Study core concepts and theory",
  "Practice with hands-on exercises",
  "Review and consolidate learning",
  "Apply knowledge to practical examples",
  "Reflect and prepare for next phase",
}

// genericWeeks is the terminal fallback: deterministic, content-free, cannot
// fail. Five fixed subtasks per week at day offsets 0-4.
func genericWeeks(weeks int) []planWeek {
  out := make([]planWeek, 0, weeks)
  for weekNumber := 1; weekNumber <= weeks; weekNumber++ {
    days := make([]planDay, 0, len(genericDailyTasks))
    for idx, desc := range genericDailyTasks {
      days = append(days, planDay{DayOffset: idx, Description: desc})
    }
    out = append(out, planWeek{
      WeekNumber:  weekNumber,
      Title:       fmt.Sprintf("Week %d: Learning Phase", weekNumber),
      Description: fmt.Sprintf("Focus on core concepts and practice for week %d", weekNumber),
      Days:        days,
    })
  }
  return out
}

func intFromAny(v any, def int) int {
  switch n := v.(type) {
  case float64:
    return int(n)
  case int:
    return n
  case json.Number:
    if i, err := n.Int64(); err == nil {
      return int(i)
    }
  case string:
    if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
      return i
    }
  }
  return def
}

func stringFromAny(v any, def string) string {
  if s, ok := v.(string); ok && s != "" {
    return s
  }
  return def
}

func truncate(s string, n int) string {
  if len(s) <= n {
    return s
  }
  return s[:n]
}
