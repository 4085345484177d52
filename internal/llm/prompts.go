package llm

const checklistSystemText = "You are an onboarding analyst for a service-provider marketplace. You read a provider's profile and decide which facts must be collected before their listing can go live. Always return valid JSON matching the requested schema."

const generateChecklistPrompt = `Read this service provider's profile and produce the onboarding checklist: the facts we must collect before their listing can go live.

Provider profile:
%s

Rules:
- 5 to 12 items. Mark a fact required only if a listing is unusable without it.
- key: lowercase snake_case slug, unique per item.
- prompt: the question as it would be asked of the provider.
- research_content: a 2-4 sentence summary of the provider useful as web research context.

Return a valid JSON object:
{"checklist": [{"key": "<slug>", "prompt": "<question>", "required": <bool>}], "research_content": "<summary>"}`

const generateQueriesPrompt = `Generate 1-3 targeted web search queries to find this fact about a service provider from public records or their web presence.

Fact to find: %s

Provider context:
%s

Return a valid JSON object:
{"queries": [{"text": "<search query>", "intent": "<what the query is trying to find>"}]}`

const rerankPrompt = `Rank these URLs by how likely each is to answer the question. Most promising first. Keep only URLs worth fetching.

Question: %s

URLs:
%s

Return a valid JSON object:
{"urls": ["<best url>", "<next url>"]}`

const modificationsSystemText = "You are an onboarding analyst reviewing a fact-collection checklist against research findings about the provider's industry and locale. Always return valid JSON matching the requested schema."

const extractModificationsPrompt = `Review this onboarding checklist against the research findings. Propose facts that must be added (e.g. a state license this trade requires), facts worth adding, and existing items that do not apply to this provider type.

Current checklist:
%s

Research findings:
%s

Return a valid JSON object:
{"mandatory_additions": [{"key": "<slug>", "question": "<question>", "reason": "<why>", "type": "mandatory"}],
 "recommended_additions": [{"key": "<slug>", "question": "<question>", "reason": "<why>", "type": "recommended"}],
 "items_to_remove": [{"key": "<slug>", "reason": "<why>", "type": "removal"}]}`

const extractAnswerPrompt = `Extract the answer to this question from the page content below. If the content does not answer the question, return an empty value with confidence 0.

Question: %s

Page content:
%s

Return a valid JSON object:
{"value": "<extracted answer or empty>", "confidence": <0.0-1.0>, "source": "<where on the page it came from>", "evidence": "<short supporting excerpt>"}`

const clarifyingPrompt = `Write one short, friendly message to a service provider during onboarding.

Situation: %s

Return a valid JSON object:
{"text": "<the message>"}`

const summarizePrompt = `Summarize this service provider profile in 2-3 sentences covering what they do, where, and any distinguishing facts.

Profile:
%s

Return a valid JSON object:
{"summary": "<the summary>"}`
