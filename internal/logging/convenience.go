package logging

// Convenience wrappers so call sites don't need Get(Category) first.
// Each is a no-op when its category is disabled.

func Boot(format string, args ...interface{})       { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{})  { Get(CategoryBoot).Debug(format, args...) }
func BootWarn(format string, args ...interface{})   { Get(CategoryBoot).Warn(format, args...) }
func BootError(format string, args ...interface{})  { Get(CategoryBoot).Error(format, args...) }

func Graph(format string, args ...interface{})      { Get(CategoryGraph).Info(format, args...) }
func GraphDebug(format string, args ...interface{}) { Get(CategoryGraph).Debug(format, args...) }
func GraphWarn(format string, args ...interface{})  { Get(CategoryGraph).Warn(format, args...) }
func GraphError(format string, args ...interface{}) { Get(CategoryGraph).Error(format, args...) }

func State(format string, args ...interface{})      { Get(CategoryState).Info(format, args...) }
func StateDebug(format string, args ...interface{}) { Get(CategoryState).Debug(format, args...) }

func LLM(format string, args ...interface{})        { Get(CategoryLLM).Info(format, args...) }
func LLMDebug(format string, args ...interface{})   { Get(CategoryLLM).Debug(format, args...) }
func LLMWarn(format string, args ...interface{})    { Get(CategoryLLM).Warn(format, args...) }
func LLMError(format string, args ...interface{})   { Get(CategoryLLM).Error(format, args...) }

func Repo(format string, args ...interface{})       { Get(CategoryRepo).Info(format, args...) }
func RepoDebug(format string, args ...interface{})  { Get(CategoryRepo).Debug(format, args...) }
func RepoWarn(format string, args ...interface{})   { Get(CategoryRepo).Warn(format, args...) }
func RepoError(format string, args ...interface{})  { Get(CategoryRepo).Error(format, args...) }

func Parse(format string, args ...interface{})      { Get(CategoryParse).Info(format, args...) }
func ParseDebug(format string, args ...interface{}) { Get(CategoryParse).Debug(format, args...) }
func ParseWarn(format string, args ...interface{})  { Get(CategoryParse).Warn(format, args...) }

func History(format string, args ...interface{})      { Get(CategoryHistory).Info(format, args...) }
func HistoryDebug(format string, args ...interface{}) { Get(CategoryHistory).Debug(format, args...) }

func Understand(format string, args ...interface{})      { Get(CategoryUnderstand).Info(format, args...) }
func UnderstandDebug(format string, args ...interface{}) { Get(CategoryUnderstand).Debug(format, args...) }
func UnderstandWarn(format string, args ...interface{})  { Get(CategoryUnderstand).Warn(format, args...) }

func RAG(format string, args ...interface{})      { Get(CategoryRAG).Info(format, args...) }
func RAGDebug(format string, args ...interface{}) { Get(CategoryRAG).Debug(format, args...) }

func Generate(format string, args ...interface{})      { Get(CategoryGenerate).Info(format, args...) }
func GenerateDebug(format string, args ...interface{}) { Get(CategoryGenerate).Debug(format, args...) }
func GenerateWarn(format string, args ...interface{})  { Get(CategoryGenerate).Warn(format, args...) }

func Quality(format string, args ...interface{})      { Get(CategoryQuality).Info(format, args...) }
func QualityDebug(format string, args ...interface{}) { Get(CategoryQuality).Debug(format, args...) }

func Mermaid(format string, args ...interface{})      { Get(CategoryMermaid).Info(format, args...) }
func MermaidDebug(format string, args ...interface{}) { Get(CategoryMermaid).Debug(format, args...) }
func MermaidWarn(format string, args ...interface{})  { Get(CategoryMermaid).Warn(format, args...) }

func Assemble(format string, args ...interface{})      { Get(CategoryAssemble).Info(format, args...) }
func AssembleDebug(format string, args ...interface{}) { Get(CategoryAssemble).Debug(format, args...) }

func Format(format string, args ...interface{})      { Get(CategoryFormat).Info(format, args...) }
func FormatDebug(format string, args ...interface{}) { Get(CategoryFormat).Debug(format, args...) }

func Report(format string, args ...interface{}) { Get(CategoryReport).Info(format, args...) }

func Embedding(format string, args ...interface{})      { Get(CategoryEmbedding).Info(format, args...) }
func EmbeddingDebug(format string, args ...interface{}) { Get(CategoryEmbedding).Debug(format, args...) }
