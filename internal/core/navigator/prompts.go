package navigator

// Default level prompt templates, overridable via [prompts] in the TOML
// config. The answer must come back as {"answer":"分类名称"} so the parser
// can pull it out of whatever prose surrounds it.

const defaultLevel1Prompt = `你是一个专业的分类助手。请根据文件名判断该文件应该属于以下哪个一级分类。

文件名：%s

可选的一级分类：
%s

请仔细分析文件名，判断文件最可能属于哪个分类。

重要：你的最终回答必须严格按照以下JSON格式输出，不要添加任何其他文字：
{"answer":"分类名称"}

其中"分类名称"必须是上面可选分类列表中的一个完整名称。如果无法确定，则返回：
{"answer":"无法确定"}

请直接输出JSON格式，不要在前面添加"分类名称："等提示文字。`

const defaultLevel2Prompt = `你是一个专业的分类助手。请根据文件名判断该文件在"%s"分类下，应该属于哪个二级分类。

文件名：%s
一级分类：%s

可选的二级分类：
%s

请仔细分析文件名，判断文件最可能属于哪个二级分类。

重要：你的最终回答必须严格按照以下JSON格式输出，不要添加任何其他文字：
{"answer":"分类名称"}

其中"分类名称"必须是上面可选分类列表中的一个完整名称。如果无法确定，则返回：
{"answer":"无法确定"}

请直接输出JSON格式，不要在前面添加"分类名称："等提示文字。`

const defaultLevel3Prompt = `你是一个专业的分类助手。请根据文件名判断该文件在"%s"分类下，应该属于哪个三级分类。

文件名：%s
上级分类：%s

可选的三级分类：
%s

请仔细分析文件名，判断文件最可能属于哪个三级分类。

重要：你的最终回答必须严格按照以下JSON格式输出，不要添加任何其他文字：
{"answer":"分类名称"}

其中"分类名称"必须是上面可选分类列表中的一个完整名称。如果无法确定，则返回：
{"answer":"无法确定"}

请直接输出JSON格式，不要在前面添加"分类名称："等提示文字。`
