package vision

// analysisPrompt instructs the vision model to describe the drawing as a
// JSON object matching the VisualAnalysis schema. Kept in lockstep with
// the models.VisualAnalysis field set.
const analysisPrompt = `Analyze this drawing and provide a comprehensive analysis in JSON format.
Focus on visual elements that translate to musical characteristics.

Return ONLY a valid JSON object with this exact structure:
{
    "colors": {
        "dominant": "description of dominant colors",
        "palette": ["color1", "color2", "color3"],
        "temperature": "warm|cool|neutral",
        "saturation": 0.0-1.0,
        "brightness": 0.0-1.0,
        "mood": "description of color mood"
    },
    "lines": {
        "quality": "smooth|jagged|geometric|organic",
        "thickness": "thin|medium|thick|varied",
        "direction": "horizontal|vertical|diagonal|curved|chaotic",
        "density": 0.0-1.0,
        "style": "description of line style"
    },
    "composition": {
        "density": 0.0-1.0,
        "symmetry": 0.0-1.0,
        "balance": "balanced|unbalanced|dynamic",
        "focus_points": ["description1", "description2"],
        "negative_space": 0.0-1.0
    },
    "subject": {
        "main_subject": "description of main subject",
        "scene_type": "landscape|portrait|abstract|still_life|action",
        "elements": ["element1", "element2", "element3"],
        "narrative": "description of story or scene"
    },
    "mood": {
        "primary": "joyful|melancholic|energetic|calm|tense|playful|dramatic",
        "secondary": "additional mood descriptors",
        "intensity": 0.0-1.0,
        "emotional_tone": "description of emotional tone"
    },
    "style": {
        "artistic_style": "realistic|abstract|cartoon|sketch|painterly",
        "technique": "description of drawing technique",
        "complexity": 0.0-1.0,
        "refinement": "rough|polished|detailed|minimalist"
    },
    "musical_suggestions": {
        "genre": "suggested music genre",
        "tempo_range": "slow|moderate|fast",
        "key_suggestion": "major|minor|modal",
        "instrumentation": ["suggested instruments"],
        "mood_mapping": "how visual mood maps to musical mood"
    }
}

Be extremely specific and descriptive. Focus on elements that would translate to musical characteristics.`
