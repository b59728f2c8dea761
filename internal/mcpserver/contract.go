package mcpserver

// CategoriesGuide explains automatic categorisation to LLM consumers.
const CategoriesGuide = `# NeuronPad categories

Every note carries exactly one category: Work, Personal, Ideas, General or Archive.

The category is recomputed from the title and content on every save; it cannot be
set directly. The text is matched case-insensitively against three keyword lists:

- **Work**: meeting, project, deadline, client, report, task, budget, presentation,
  email, schedule, office, team, manager, sprint, review, agenda
- **Ideas**: idea, brainstorm, concept, what if, maybe, innovation, creative,
  inspiration, design, prototype, experiment, explore
- **Personal**: grocery, shopping, birthday, family, vacation, recipe, workout,
  doctor, appointment, hobby, travel, home, personal

Each keyword found counts once. The list with strictly the most hits wins; any tie
(including no hits at all) gives **General**. **Archive** is never assigned
automatically.

Use ` + "`list_notes`" + ` with ` + "`category: All`" + ` to see every note.
`
